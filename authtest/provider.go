// Package authtest provides a fake OIDC provider for tests. It serves
// discovery, an authorize endpoint that immediately redirects back with a
// code, a PKCE-checking token endpoint, and the JWKS for the ID tokens it
// signs, so the whole Google login flow can run against httptest.
//
// Example usage:
//
//	p := authtest.NewProvider("client-id")
//	defer p.Close()
//	p.SetUser(authtest.User{Subject: "g-100", Email: "a@example.com"})
//	g, _ := oidckit.NewGoogle(ctx, oidckit.RPConfig{Issuer: p.URL(), ClientID: "client-id", ...})
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// User is the identity the provider reports on the next authorization.
type User struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type pendingCode struct {
	user      User
	nonce     string
	challenge string
}

// Provider is an in-process OIDC provider.
type Provider struct {
	server   *httptest.Server
	key      *rsa.PrivateKey
	kid      string
	clientID string

	mu     sync.Mutex
	user   *User
	denied bool
	codes  map[string]pendingCode
}

// NewProvider starts a provider that issues tokens for clientID.
func NewProvider(clientID string) *Provider {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic("authtest: generate key: " + err.Error())
	}
	p := &Provider{key: key, kid: "test-key-1", clientID: clientID, codes: make(map[string]pendingCode)}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", p.handleDiscovery)
	mux.HandleFunc("/authorize", p.handleAuthorize)
	mux.HandleFunc("/token", p.handleToken)
	mux.HandleFunc("/jwks", p.handleJWKS)
	p.server = httptest.NewServer(mux)
	return p
}

// URL is the issuer URL.
func (p *Provider) URL() string { return p.server.URL }

// Client returns an HTTP client that reaches the provider.
func (p *Provider) Client() *http.Client { return p.server.Client() }

func (p *Provider) Close() { p.server.Close() }

// SetUser sets the identity returned by subsequent authorizations.
func (p *Provider) SetUser(u User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = &u
	p.denied = false
}

// Deny makes the next authorizations fail as if the user refused consent.
func (p *Provider) Deny() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.denied = true
}

func (p *Provider) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"issuer":                 p.URL(),
		"authorization_endpoint": p.URL() + "/authorize",
		"token_endpoint":         p.URL() + "/token",
		"jwks_uri":               p.URL() + "/jwks",
	})
}

func (p *Provider) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	redirect, err := url.Parse(q.Get("redirect_uri"))
	if err != nil || q.Get("client_id") != p.clientID {
		http.Error(w, "bad client", http.StatusBadRequest)
		return
	}
	back := redirect.Query()
	back.Set("state", q.Get("state"))

	p.mu.Lock()
	switch {
	case p.denied || p.user == nil:
		back.Set("error", "access_denied")
	default:
		code := randomHex(16)
		p.codes[code] = pendingCode{user: *p.user, nonce: q.Get("nonce"), challenge: q.Get("code_challenge")}
		back.Set("code", code)
	}
	p.mu.Unlock()

	redirect.RawQuery = back.Encode()
	http.Redirect(w, r, redirect.String(), http.StatusFound)
}

func (p *Provider) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	code := r.PostForm.Get("code")
	p.mu.Lock()
	pc, ok := p.codes[code]
	delete(p.codes, code)
	p.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}
	if pc.challenge != "" {
		sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
		if base64.RawURLEncoding.EncodeToString(sum[:]) != pc.challenge {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
			return
		}
	}
	idToken, err := p.SignIDToken(pc.user, pc.nonce, time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": randomHex(16),
		"token_type":   "Bearer",
		"expires_in":   3600,
		"id_token":     idToken,
	})
}

func (p *Provider) handleJWKS(w http.ResponseWriter, r *http.Request) {
	key, err := jwk.FromRaw(&p.key.PublicKey)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = key.Set(jwk.KeyIDKey, p.kid)
	_ = key.Set(jwk.AlgorithmKey, jwa.RS256)
	_ = key.Set(jwk.KeyUsageKey, "sig")
	set := jwk.NewSet()
	_ = set.AddKey(key)
	writeJSON(w, http.StatusOK, set)
}

// SignIDToken mints an RS256 ID token for u, valid for ttl (negative ttl
// yields an already expired token).
func (p *Provider) SignIDToken(u User, nonce string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": p.URL(),
		"aud": p.clientID,
		"sub": u.Subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if nonce != "" {
		claims["nonce"] = nonce
	}
	if u.Email != "" {
		claims["email"] = u.Email
	}
	if u.Name != "" {
		claims["name"] = u.Name
	}
	if u.Picture != "" {
		claims["picture"] = u.Picture
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = p.kid
	return token.SignedString(p.key)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
