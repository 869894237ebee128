package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authgin "github.com/PaulFidika/oauthgate/adapters/gin"
	"github.com/PaulFidika/oauthgate/adapters/gin/handlers"
	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/PaulFidika/oauthgate/config"
	"github.com/PaulFidika/oauthgate/core"
	"github.com/PaulFidika/oauthgate/identity"
	migrations "github.com/PaulFidika/oauthgate/migrations/postgres"
	oidckit "github.com/PaulFidika/oauthgate/oidc"
	memorylimiter "github.com/PaulFidika/oauthgate/ratelimit/memory"
	redislimiter "github.com/PaulFidika/oauthgate/ratelimit/redis"
	memorystore "github.com/PaulFidika/oauthgate/storage/memory"
	pgstore "github.com/PaulFidika/oauthgate/storage/postgres"
	redisstore "github.com/PaulFidika/oauthgate/storage/redis"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("gateway stopped")
	}
}

// closers run in reverse order on shutdown.
type closers []func()

func (cs *closers) add(f func()) { *cs = append(*cs, f) }

func (cs closers) run() {
	for i := len(cs) - 1; i >= 0; i-- {
		cs[i]()
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	var cleanup closers
	defer cleanup.run()

	var rdb redis.UniversalClient
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		rdb = client
		cleanup.add(func() { _ = client.Close() })
	}

	coreCfg := core.Config{
		SessionTTL:   cfg.SessionTTL,
		HistoryLimit: cfg.LoginHistoryLimit,
		Logger:       log,
	}

	var states oidckit.StateCache
	var limiter ginutil.RateLimiter
	if rdb != nil {
		states = redisstore.NewStateCache(rdb, "", handlers.StateTTL)
		coreCfg.Sessions = redisstore.NewSessionStore(rdb, "")
		limits := map[string]redislimiter.Limit{}
		for _, b := range limitedBuckets {
			limits[b] = redislimiter.Limit{Limit: perMinute, Window: time.Minute}
		}
		limiter = redislimiter.New(rdb, limits)
	} else {
		mem := memorystore.NewStateCache(handlers.StateTTL)
		cleanup.add(func() { _ = mem.Close() })
		states = mem
		limits := map[string]memorylimiter.Limit{}
		for _, b := range limitedBuckets {
			limits[b] = memorylimiter.Limit{Limit: perMinute, Window: time.Minute}
		}
		limiter = memorylimiter.New(limits)
	}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		cleanup.add(pool.Close)

		sqldb := stdlib.OpenDBFromPool(pool)
		cleanup.add(func() { _ = sqldb.Close() })
		if err := migrations.Migrate(ctx, sqldb, log); err != nil {
			return err
		}

		coreCfg.Identities = identity.NewStore(pool, "")
		audit := pgstore.NewAuditStore(pool, "")
		coreCfg.Audit = audit
		if cfg.AuditAsync {
			if err := migrations.MigrateRiver(ctx, pool); err != nil {
				return err
			}
			q, err := pgstore.NewAuditQueue(pool, audit, 4, log)
			if err != nil {
				return err
			}
			if err := q.Start(ctx); err != nil {
				return err
			}
			cleanup.add(func() {
				sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = q.Stop(sctx)
			})
			coreCfg.Audit = q
		}

		if coreCfg.Sessions == nil {
			sessions := pgstore.NewSessionStore(pool, "")
			coreCfg.Sessions = sessions
			sweeper, err := pgstore.NewSweeper(sessions, cfg.SessionSweepSchedule, log)
			if err != nil {
				return err
			}
			sweeper.Start()
			cleanup.add(sweeper.Stop)
		}
	} else {
		log.Warn("DATABASE_URL not set; identities and login history are kept in memory")
		coreCfg.Identities = memorystore.NewIdentityStore()
		coreCfg.Audit = memorystore.NewAuditStore()
	}
	if coreCfg.Sessions == nil {
		mem := memorystore.NewSessionStore()
		cleanup.add(func() { _ = mem.Close() })
		coreCfg.Sessions = mem
	}

	svc, err := core.NewService(coreCfg)
	if err != nil {
		return err
	}
	google, err := oidckit.NewGoogle(ctx, oidckit.RPConfig{
		Issuer:       cfg.GoogleIssuer,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.CallbackURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return err
	}
	cookies, err := ginutil.NewCookieCodec(ginutil.CookieConfig{
		Secret: []byte(cfg.SessionSecret),
		Secure: cfg.Production(),
		TTL:    cfg.SessionTTL,
	})
	if err != nil {
		return err
	}
	gw, err := authgin.NewService(svc, google, states, cookies)
	if err != nil {
		return err
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return err
	}
	r.Use(gin.Recovery())
	gw.WithRateLimiter(limiter).WithMetrics().GinRegister(r)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("gateway listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

// Per-IP limit on the login and logout routes.
const perMinute = 20

var limitedBuckets = []string{ginutil.RLLoginStart, ginutil.RLLoginCallback, ginutil.RLLogout}
