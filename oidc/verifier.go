package oidckit

import (
	"context"
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// IDTokenClaims are the identity fields read from a verified ID token.
type IDTokenClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier checks signature, issuer, audience, expiry and nonce.
type IDTokenVerifier struct {
	issuer   string
	clientID string
	keySet   jwk.Set
	nonce    string
	skew     time.Duration
}

// VerifierOpt configures an ID token verifier.
type VerifierOpt func(*IDTokenVerifier)

// WithNonce requires the token's nonce claim to equal nonce.
func WithNonce(nonce string) VerifierOpt {
	return func(v *IDTokenVerifier) { v.nonce = nonce }
}

// WithSkew tolerates clock drift when checking exp/iat/nbf.
func WithSkew(d time.Duration) VerifierOpt {
	return func(v *IDTokenVerifier) { v.skew = d }
}

func NewIDTokenVerifier(issuer, clientID string, keySet jwk.Set, opts ...VerifierOpt) *IDTokenVerifier {
	v := &IDTokenVerifier{issuer: issuer, clientID: clientID, keySet: keySet, skew: 30 * time.Second}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify parses rawToken and returns its identity claims.
func (v *IDTokenVerifier) Verify(ctx context.Context, rawToken string) (*IDTokenClaims, error) {
	if v.keySet == nil {
		return nil, errors.New("oidc: missing key set")
	}
	token, err := jwt.ParseString(
		rawToken,
		jwt.WithKeySet(v.keySet),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
		jwt.WithAcceptableSkew(v.skew),
		jwt.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	if v.nonce != "" {
		if got := stringClaim(token, "nonce"); got != v.nonce {
			return nil, errors.New("oidc: nonce mismatch")
		}
	}
	if token.Subject() == "" {
		return nil, errors.New("oidc: missing sub")
	}
	return &IDTokenClaims{
		Subject: token.Subject(),
		Email:   stringClaim(token, "email"),
		Name:    stringClaim(token, "name"),
		Picture: stringClaim(token, "picture"),
	}, nil
}

func stringClaim(token jwt.Token, name string) string {
	raw, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}
