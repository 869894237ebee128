package oidckit

import (
	"context"
	"time"
)

// StateData is what the login start stores for the callback to pick up.
type StateData struct {
	Verifier  string    `json:"verifier"`
	Nonce     string    `json:"nonce"`
	CreatedAt time.Time `json:"created_at"`
}

// StateCache holds pending authorization requests keyed by the OAuth state.
// Take is single-use: a state can be redeemed at most once.
type StateCache interface {
	Put(ctx context.Context, state string, data StateData) error
	Take(ctx context.Context, state string) (StateData, bool, error)
}
