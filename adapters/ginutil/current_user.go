package ginutil

import "github.com/gin-gonic/gin"

// UserView is the caller as shown to handlers and templates.
type UserView struct {
	PrincipalID string  `json:"-"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Picture     *string `json:"picture,omitempty"`
}

// CurrentUser returns the authenticated caller, or ok=false for anonymous
// requests. It never falls back to an anonymous principal.
func CurrentUser(c *gin.Context) (UserView, bool) {
	p, ok := Principal(c)
	if !ok {
		return UserView{}, false
	}
	return UserView{
		PrincipalID: p.ID,
		Name:        p.DisplayName,
		Email:       p.Email,
		Picture:     p.AvatarURL,
	}, true
}
