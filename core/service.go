package core

import (
	"context"
	"errors"

	"github.com/PaulFidika/oauthgate/metrics"
	"github.com/sirupsen/logrus"
)

// Service runs the authentication flow: identity resolution, then session
// creation, then audit, strictly in that order.
type Service struct {
	cfg      Config
	resolver *Resolver
	sessions *SessionManager
	audit    *AuditRecorder
	log      logrus.FieldLogger
}

// NewService validates cfg and builds the flow components.
func NewService(cfg Config) (*Service, error) {
	if cfg.Identities == nil || cfg.Sessions == nil || cfg.Audit == nil {
		return nil, errors.New("core: identity, session and audit stores are required")
	}
	c := cfg.defaulted()
	return &Service{
		cfg:      c,
		resolver: NewResolver(c.Identities, c.Logger, c.Now),
		sessions: NewSessionManager(c.Sessions, c.Identities, c.SessionTTL, c.Logger, c.Now),
		audit:    NewAuditRecorder(c.Audit, c.HistoryLimit, c.Logger, c.Now),
		log:      c.Logger,
	}, nil
}

func (s *Service) Resolver() *Resolver           { return s.resolver }
func (s *Service) Sessions() *SessionManager     { return s.sessions }
func (s *Service) AuditRecorder() *AuditRecorder { return s.audit }
func (s *Service) Logger() logrus.FieldLogger    { return s.log }
func (s *Service) HistoryLimit() int             { return s.cfg.HistoryLimit }

// CompleteLogin finishes a provider callback. The store writes are detached
// from ctx cancellation so a client disconnect cannot leave a half-applied
// flow. On error no session exists and no event is recorded.
func (s *Service) CompleteLogin(ctx context.Context, profile ExternalProfile, meta RequestMeta) (*Principal, Session, error) {
	ctx = context.WithoutCancel(ctx)

	p, err := s.resolver.Resolve(ctx, profile)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, Session{}, err
	}
	sess, err := s.sessions.Create(ctx, p)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, Session{}, err
	}
	s.audit.Record(ctx, p, meta)

	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.log.WithFields(logrus.Fields{"principal_id": p.ID, "ip": meta.SourceIP}).Info("login completed")
	return p, sess, nil
}

// Authenticate validates token into an explicit per-request result.
func (s *Service) Authenticate(ctx context.Context, token string) SessionResult {
	p, err := s.sessions.Validate(ctx, token)
	if err != nil && !errors.Is(err, ErrInvalidSession) {
		s.log.WithError(err).Error("session validation failed")
	}
	return SessionResult{Principal: p, Err: err}
}

// Logout destroys the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(context.WithoutCancel(ctx), token)
}

// LoginHistory returns the caller's own most recent login events.
func (s *Service) LoginHistory(ctx context.Context, principalID string) ([]LoginEvent, error) {
	return s.audit.History(ctx, principalID, s.cfg.HistoryLimit)
}
