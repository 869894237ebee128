// Package authgin mounts the gateway's routes on a gin router.
package authgin

import (
	"errors"

	"github.com/PaulFidika/oauthgate/adapters/gin/handlers"
	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/PaulFidika/oauthgate/core"
	"github.com/PaulFidika/oauthgate/metrics"
	oidckit "github.com/PaulFidika/oauthgate/oidc"
	"github.com/gin-gonic/gin"
)

// Service bundles what the HTTP surface needs.
type Service struct {
	svc     *core.Service
	auth    handlers.Authenticator
	states  oidckit.StateCache
	cookies *ginutil.CookieCodec
	rl      ginutil.RateLimiter
	metrics bool
}

func NewService(svc *core.Service, auth handlers.Authenticator, states oidckit.StateCache, cookies *ginutil.CookieCodec) (*Service, error) {
	if svc == nil || auth == nil || states == nil || cookies == nil {
		return nil, errors.New("authgin: service, authenticator, state cache and cookie codec are required")
	}
	return &Service{svc: svc, auth: auth, states: states, cookies: cookies}, nil
}

func (s *Service) WithRateLimiter(rl ginutil.RateLimiter) *Service { s.rl = rl; return s }

// WithMetrics exposes the Prometheus handler on /metrics.
func (s *Service) WithMetrics() *Service { s.metrics = true; return s }

func (s *Service) Core() *core.Service { return s.svc }

// GinRegister mounts every route on r.
func (s *Service) GinRegister(r gin.IRouter) {
	r.Use(RequestLogger(s.svc.Logger()), SessionMiddleware(s.svc, s.cookies))

	r.GET(ginutil.HomePath, handlers.HandleHomeGET())
	r.GET(ginutil.LoginPath, handlers.HandleLoginPageGET())
	r.GET(ginutil.LoginStartPath, handlers.HandleAuthGoogleGET(s.auth, s.states, s.cookies, s.rl, s.svc.Logger()))
	r.GET(ginutil.CallbackPath, handlers.HandleAuthGoogleCallbackGET(s.svc, s.auth, s.states, s.cookies, s.rl))
	r.GET(ginutil.LogoutPath, handlers.HandleLogoutGET(s.svc, s.cookies, s.rl))

	protected := r.Group("", RequireSession())
	protected.GET(ginutil.DashboardPath, handlers.HandleDashboardGET())
	protected.GET(ginutil.LoginHistoryPath, handlers.HandleLoginHistoryGET(s.svc))

	if s.metrics {
		r.GET(ginutil.MetricsPath, gin.WrapH(metrics.Handler()))
	}
}
