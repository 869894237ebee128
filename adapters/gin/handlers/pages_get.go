package handlers

import (
	"net/http"

	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/gin-gonic/gin"
)

const loginPage = `<!doctype html>
<h1>Login</h1>
<a href="` + ginutil.LoginStartPath + `">Login with Google</a>
`

const homePage = `<!doctype html>
<h1>OAuth 2.0 Server</h1>
<a href="` + ginutil.LoginPath + `">Login</a>
`

func HandleLoginPageGET() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
	}
}

// HandleHomeGET sends signed-in users to the dashboard.
func HandleHomeGET() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ginutil.Principal(c); ok {
			c.Redirect(http.StatusFound, ginutil.DashboardPath)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(homePage))
	}
}
