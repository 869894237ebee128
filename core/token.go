package core

import (
	"crypto/rand"

	"github.com/mr-tron/base58"
)

// sessionTokenBytes gives 256 bits of entropy per token.
const sessionTokenBytes = 32

// NewSessionToken returns a random, base58 encoded session token.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}
