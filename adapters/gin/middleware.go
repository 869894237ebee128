package authgin

import (
	"errors"
	"time"

	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/PaulFidika/oauthgate/core"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionMiddleware validates the session cookie once per request and
// attaches the result. It never rejects; RequireSession decides.
func SessionMiddleware(svc *core.Service, cookies *ginutil.CookieCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := cookies.Token(c)
		if !ok {
			ginutil.SetSessionResult(c, core.SessionResult{Err: core.ErrInvalidSession})
			c.Next()
			return
		}
		ginutil.SetSessionResult(c, svc.Authenticate(c.Request.Context(), token))
		c.Next()
	}
}

// RequireSession lets the request through only for a live session. A missing,
// expired or dangling session redirects to the login page; a session store
// outage answers 500 without detail.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		r, _ := ginutil.SessionResultFrom(c)
		if core.CanProceed(r) == core.Allow {
			c.Next()
			return
		}
		if errors.Is(r.Err, core.ErrStoreUnavailable) {
			ginutil.ServerErr(c, "session_unavailable")
			return
		}
		ginutil.RedirectToLogin(c)
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
			"ip":       c.ClientIP(),
		})
		if c.Writer.Status() >= 500 {
			entry.Error("request")
			return
		}
		entry.Debug("request")
	}
}
