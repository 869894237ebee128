package oidckit

import (
	"context"
	"fmt"
	"strings"

	"github.com/PaulFidika/oauthgate/core"
	"golang.org/x/oauth2"
)

// GoogleIssuer is Google's OIDC issuer.
const GoogleIssuer = "https://accounts.google.com"

// Google drives the authorization-code flow against Google (or any issuer
// speaking the same OIDC dialect) and turns the callback into a verified
// core.ExternalProfile.
type Google struct {
	rp *RelyingParty
}

// NewGoogle discovers the provider. cfg.Issuer defaults to GoogleIssuer and
// cfg.Scopes to openid, email and profile.
func NewGoogle(ctx context.Context, cfg RPConfig) (*Google, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = GoogleIssuer
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "email", "profile"}
	}
	rp, err := NewRelyingParty(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Google{rp: rp}, nil
}

// AuthURL builds the consent redirect with PKCE (S256) and a nonce.
func (g *Google) AuthURL(state, nonce, verifier string) string {
	return g.rp.oauthConfig.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("nonce", nonce),
	)
}

// Exchange redeems code and verifies the returned ID token. Every failure is
// reported as core.ErrProviderAuth.
func (g *Google) Exchange(ctx context.Context, code, verifier, nonce string) (core.ExternalProfile, error) {
	if strings.TrimSpace(code) == "" {
		return core.ExternalProfile{}, fmt.Errorf("%w: missing code", core.ErrProviderAuth)
	}
	tok, err := g.rp.oauthConfig.Exchange(g.rp.withClient(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return core.ExternalProfile{}, fmt.Errorf("%w: token exchange: %w", core.ErrProviderAuth, err)
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return core.ExternalProfile{}, fmt.Errorf("%w: no id_token in response", core.ErrProviderAuth)
	}
	keySet, err := g.rp.KeySet(ctx)
	if err != nil {
		return core.ExternalProfile{}, fmt.Errorf("%w: jwks fetch: %w", core.ErrProviderAuth, err)
	}
	claims, err := NewIDTokenVerifier(g.rp.Issuer(), g.rp.ClientID(), keySet, WithNonce(nonce)).Verify(ctx, rawIDToken)
	if err != nil {
		return core.ExternalProfile{}, fmt.Errorf("%w: id_token: %w", core.ErrProviderAuth, err)
	}
	return core.ExternalProfile{
		SubjectID:   claims.Subject,
		Email:       strptr(claims.Email),
		DisplayName: strptr(claims.Name),
		AvatarURL:   strptr(claims.Picture),
	}, nil
}

// NewVerifier returns a PKCE code verifier.
func NewVerifier() string { return oauth2.GenerateVerifier() }

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
