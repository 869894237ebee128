package handlers

import (
	"net/http"

	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/PaulFidika/oauthgate/core"
	"github.com/gin-gonic/gin"
)

// HandleLoginHistoryGET returns the caller's own recent logins, newest first.
// The principal always comes from the session, never from the request.
func HandleLoginHistoryGET(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := ginutil.Principal(c)
		if !ok {
			ginutil.RedirectToLogin(c)
			return
		}
		events, err := svc.LoginHistory(c.Request.Context(), p.ID)
		if err != nil {
			svc.Logger().WithError(err).WithField("principal_id", p.ID).Error("failed to fetch login history")
			ginutil.ServerErr(c, "failed_to_fetch_login_history")
			return
		}
		c.JSON(http.StatusOK, events)
	}
}
