package handlers

import (
	"errors"
	"net/http"

	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/PaulFidika/oauthgate/core"
	"github.com/PaulFidika/oauthgate/metrics"
	oidckit "github.com/PaulFidika/oauthgate/oidc"
	"github.com/gin-gonic/gin"
)

// HandleAuthGoogleCallbackGET completes the login. Provider-side failures
// (denied consent, unknown or replayed state, failed exchange) send the user
// back to the login page without a session or audit record; store failures
// answer 500.
func HandleAuthGoogleCallbackGET(svc *core.Service, auth Authenticator, states oidckit.StateCache, cookies *ginutil.CookieCodec, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := svc.Logger().WithField("ip", c.ClientIP())
		if !ginutil.AllowNamed(c, rl, ginutil.RLLoginCallback, svc.Logger()) {
			ginutil.TooMany(c)
			return
		}
		ctx := c.Request.Context()
		bound := cookies.TakeStateCookie(c)

		if e := c.Query("error"); e != "" {
			log.WithField("provider_error", e).Info("provider rejected login")
			providerFailure(c)
			return
		}
		state := c.Query("state")
		if state == "" || state != bound {
			log.Warn("oauth state missing or not bound to this browser")
			providerFailure(c)
			return
		}
		data, ok, err := states.Take(ctx, state)
		if err != nil {
			log.WithError(err).Error("failed to load oauth state")
			ginutil.ServerErr(c, "login_failed")
			return
		}
		if !ok {
			log.Warn("unknown or expired oauth state")
			providerFailure(c)
			return
		}

		profile, err := auth.Exchange(ctx, c.Query("code"), data.Verifier, data.Nonce)
		if err != nil {
			log.WithError(err).Warn("provider exchange failed")
			providerFailure(c)
			return
		}

		_, sess, err := svc.CompleteLogin(ctx, profile, core.RequestMeta{
			SourceIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if errors.Is(err, core.ErrInvalidProfile) {
			log.Warn("provider profile without subject")
			providerFailure(c)
			return
		}
		if err != nil {
			log.WithError(err).Error("login failed")
			ginutil.ServerErr(c, "login_failed")
			return
		}
		if err := cookies.Set(c, sess.Token); err != nil {
			log.WithError(err).Error("failed to set session cookie")
			ginutil.ServerErr(c, "login_failed")
			return
		}
		c.Redirect(http.StatusFound, ginutil.DashboardPath)
	}
}

func providerFailure(c *gin.Context) {
	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
	ginutil.RedirectToLogin(c)
}
