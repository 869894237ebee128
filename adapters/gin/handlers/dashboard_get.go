package handlers

import (
	"net/http"

	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/gin-gonic/gin"
)

// HandleDashboardGET must sit behind the session guard.
func HandleDashboardGET() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := ginutil.CurrentUser(c)
		if !ok {
			ginutil.RedirectToLogin(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to dashboard", "user": u})
	}
}
