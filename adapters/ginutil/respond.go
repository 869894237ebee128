// Package ginutil holds the small gin helpers shared by the gateway handlers:
// error responses, rate limiting, the session cookie and per-request session state.
package ginutil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func BadRequest(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": code})
}

// ServerErr answers 500 with an opaque code; store details never reach the client.
func ServerErr(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": code})
}

func TooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
}

// RedirectToLogin aborts with a 302 to the login entry point.
func RedirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

// Route paths shared by handlers and the router.
const (
	HomePath         = "/"
	LoginPath        = "/login"
	LoginStartPath   = "/auth/google"
	CallbackPath     = "/auth/google/callback"
	LogoutPath       = "/logout"
	DashboardPath    = "/dashboard"
	LoginHistoryPath = "/login-history"
	MetricsPath      = "/metrics"
)
