package handlers

import (
	"net/http"

	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/PaulFidika/oauthgate/core"
	"github.com/gin-gonic/gin"
)

// HandleLogoutGET destroys the caller's session, if any, and redirects home.
func HandleLogoutGET(svc *core.Service, cookies *ginutil.CookieCodec, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, ginutil.RLLogout, svc.Logger()) {
			ginutil.TooMany(c)
			return
		}
		if token, ok := cookies.Token(c); ok {
			if err := svc.Logout(c.Request.Context(), token); err != nil {
				svc.Logger().WithError(err).Error("logout failed")
				ginutil.ServerErr(c, "logout_failed")
				return
			}
		}
		cookies.Clear(c)
		c.Redirect(http.StatusFound, ginutil.HomePath)
	}
}
