package ginutil

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	DefaultSessionCookie = "sid"
	DefaultStateCookie   = "oauth_state"
	minSecretLen         = 16
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secret []byte
	// Secure is set in production; dev runs over plain http.
	Secure bool
	TTL    time.Duration
}

// CookieCodec writes and reads the session cookie. The value is
// "<token>.<sig>" where sig is an HS256 MAC over the token under a key derived
// from the session secret; the cookie carries nothing else.
type CookieCodec struct {
	cfg CookieConfig
	key []byte
}

func NewCookieCodec(cfg CookieConfig) (*CookieCodec, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, errors.New("cookie: session secret must be at least 16 bytes")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultSessionCookie
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, cfg.Secret, nil, []byte("oauthgate session cookie v1")), key); err != nil {
		return nil, err
	}
	return &CookieCodec{cfg: cfg, key: key}, nil
}

func (cc *CookieCodec) Name() string { return cc.cfg.Name }
func (cc *CookieCodec) Secure() bool { return cc.cfg.Secure }

// Encode signs token for storage in the cookie.
func (cc *CookieCodec) Encode(token string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(token, cc.key)
	if err != nil {
		return "", err
	}
	return token + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Decode returns the token inside value if its signature verifies.
func (cc *CookieCodec) Decode(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", false
	}
	token, rawSig := value[:i], value[i+1:]
	sig, err := base64.RawURLEncoding.DecodeString(rawSig)
	if err != nil {
		return "", false
	}
	if err := jwt.SigningMethodHS256.Verify(token, sig, cc.key); err != nil {
		return "", false
	}
	return token, true
}

// Token reads and verifies the session cookie from the request.
func (cc *CookieCodec) Token(c *gin.Context) (string, bool) {
	v, err := c.Cookie(cc.cfg.Name)
	if err != nil || v == "" {
		return "", false
	}
	return cc.Decode(v)
}

// Set writes the session cookie for token.
func (cc *CookieCodec) Set(c *gin.Context, token string) error {
	v, err := cc.Encode(token)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cc.cfg.Name,
		Value:    v,
		Path:     "/",
		MaxAge:   int(cc.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   cc.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (cc *CookieCodec) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cc.cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetStateCookie binds an OAuth state to this browser for the length of the
// consent round-trip. Lax is required for the cross-site redirect back.
func (cc *CookieCodec) SetStateCookie(c *gin.Context, state string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     DefaultStateCookie,
		Value:    state,
		Path:     CallbackPath,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   cc.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeStateCookie returns the bound state and clears the cookie.
func (cc *CookieCodec) TakeStateCookie(c *gin.Context) string {
	v, _ := c.Cookie(DefaultStateCookie)
	http.SetCookie(c.Writer, &http.Cookie{Name: DefaultStateCookie, Value: "", Path: CallbackPath, MaxAge: -1, HttpOnly: true, Secure: cc.cfg.Secure})
	return v
}
