package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/PaulFidika/oauthgate/adapters/ginutil"
	"github.com/PaulFidika/oauthgate/core"
	oidckit "github.com/PaulFidika/oauthgate/oidc"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Authenticator is the provider side of the authorization-code flow.
type Authenticator interface {
	AuthURL(state, nonce, verifier string) string
	Exchange(ctx context.Context, code, verifier, nonce string) (core.ExternalProfile, error)
}

// StateTTL bounds how long a user may sit on the consent screen.
const StateTTL = 10 * time.Minute

// HandleAuthGoogleGET starts the login: it stores state, nonce and a PKCE
// verifier and redirects to the provider.
func HandleAuthGoogleGET(auth Authenticator, states oidckit.StateCache, cookies *ginutil.CookieCodec, rl ginutil.RateLimiter, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, ginutil.RLLoginStart, log) {
			ginutil.TooMany(c)
			return
		}
		state, err1 := randomToken()
		nonce, err2 := randomToken()
		if err1 != nil || err2 != nil {
			ginutil.ServerErr(c, "login_unavailable")
			return
		}
		verifier := oidckit.NewVerifier()
		data := oidckit.StateData{Verifier: verifier, Nonce: nonce, CreatedAt: time.Now()}
		if err := states.Put(c.Request.Context(), state, data); err != nil {
			log.WithError(err).Error("failed to store oauth state")
			ginutil.ServerErr(c, "login_unavailable")
			return
		}
		cookies.SetStateCookie(c, state, StateTTL)
		c.Redirect(http.StatusFound, auth.AuthURL(state, nonce, verifier))
	}
}

func randomToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
