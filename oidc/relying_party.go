package oidckit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/oauth2"
)

// RelyingParty holds discovery-backed OIDC configuration for a provider.
type RelyingParty struct {
	issuer      string
	clientID    string
	jwksURL     string
	httpClient  *http.Client
	oauthConfig *oauth2.Config
}

type discoveryDoc struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// RPConfig describes the client registration at the provider.
type RPConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// HTTPClient is used for discovery, token exchange and JWKS; defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// NewRelyingParty discovers OIDC metadata and constructs a relying party.
func NewRelyingParty(ctx context.Context, cfg RPConfig) (*RelyingParty, error) {
	issuer := strings.TrimRight(cfg.Issuer, "/")
	if issuer == "" {
		return nil, errors.New("oidc: issuer is empty")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("oidc: client id is empty")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	doc, err := discover(ctx, client, issuer)
	if err != nil {
		return nil, err
	}
	effectiveIssuer := doc.Issuer
	if effectiveIssuer == "" {
		effectiveIssuer = cfg.Issuer
	}
	return &RelyingParty{
		issuer:     effectiveIssuer,
		clientID:   cfg.ClientID,
		jwksURL:    doc.JWKSURI,
		httpClient: client,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       ensureOpenID(cfg.Scopes),
			Endpoint: oauth2.Endpoint{
				AuthURL:  doc.AuthorizationEndpoint,
				TokenURL: doc.TokenEndpoint,
			},
		},
	}, nil
}

func (rp *RelyingParty) OAuthConfig() *oauth2.Config { return rp.oauthConfig }
func (rp *RelyingParty) Issuer() string              { return rp.issuer }
func (rp *RelyingParty) ClientID() string            { return rp.clientID }

// KeySet fetches the current JWKS for signature verification.
func (rp *RelyingParty) KeySet(ctx context.Context) (jwk.Set, error) {
	if rp.jwksURL == "" {
		return nil, errors.New("oidc: missing jwks_uri")
	}
	return jwk.Fetch(ctx, rp.jwksURL, jwk.WithHTTPClient(rp.httpClient))
}

// withClient makes x/oauth2 use the relying party's HTTP client.
func (rp *RelyingParty) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, rp.httpClient)
}

func discover(ctx context.Context, client *http.Client, issuer string) (*discoveryDoc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issuer+"/.well-known/openid-configuration", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oidc: discovery failed: %s", resp.Status)
	}
	var doc discoveryDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}
	if got := strings.TrimRight(doc.Issuer, "/"); got != "" && got != issuer {
		return nil, fmt.Errorf("oidc: issuer mismatch: %s", doc.Issuer)
	}
	if doc.AuthorizationEndpoint == "" || doc.TokenEndpoint == "" || doc.JWKSURI == "" {
		return nil, errors.New("oidc: discovery missing endpoints")
	}
	return &doc, nil
}

func ensureOpenID(scopes []string) []string {
	for _, s := range scopes {
		if s == "openid" {
			return scopes
		}
	}
	return append([]string{"openid"}, scopes...)
}
