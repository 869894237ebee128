package ginutil

import (
	"context"

	"github.com/PaulFidika/oauthgate/core"
	"github.com/gin-gonic/gin"
)

const ginSessionKey = "auth.session"

type ctxKey struct{}

// SetSessionResult attaches the request's session result to both the gin
// context and the request context.
func SetSessionResult(c *gin.Context, r core.SessionResult) {
	c.Set(ginSessionKey, r)
	c.Request = c.Request.WithContext(WithSessionResult(c.Request.Context(), r))
}

func WithSessionResult(ctx context.Context, r core.SessionResult) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// SessionResultFrom returns the result set by the session middleware. ok is
// false when the middleware did not run for this request.
func SessionResultFrom(c *gin.Context) (core.SessionResult, bool) {
	if v, ok := c.Get(ginSessionKey); ok {
		if r, ok := v.(core.SessionResult); ok {
			return r, true
		}
	}
	return SessionResultFromContext(c.Request.Context())
}

func SessionResultFromContext(ctx context.Context) (core.SessionResult, bool) {
	r, ok := ctx.Value(ctxKey{}).(core.SessionResult)
	return r, ok
}

// Principal returns the authenticated principal, if any.
func Principal(c *gin.Context) (*core.Principal, bool) {
	r, ok := SessionResultFrom(c)
	if !ok || !r.Valid() {
		return nil, false
	}
	return r.Principal, true
}
