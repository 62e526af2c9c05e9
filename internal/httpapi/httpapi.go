package httpapi

import (
	"fmt"
	"net/http"
	"time"
)

// Config is the full set of settings needed to start the HTTP API.
type Config struct {
	// ListenAddr is the address to bind, e.g. ":8080" or "localhost:8080".
	ListenAddr string

	// Secret signs and validates JWT bearer tokens.
	Secret []byte

	// PasswordHash is the bcrypt hash of the single operator's password.
	PasswordHash []byte

	// Store persists submitted grammars. If nil, an in-memory MemStore is
	// used.
	Store GrammarStore

	// UnauthDelay pauses unauthorized/forbidden/error responses by this
	// long, to deprioritize such requests. Defaults to zero (no delay).
	UnauthDelay time.Duration

	// MaxLookahead bounds the FIRST_k computation used by the emit endpoint
	// for the cocor and llgen targets. Defaults to 1.
	MaxLookahead int
}

// NewServer builds the http.Handler for cfg without starting to listen,
// useful for tests that drive it with httptest.
func NewServer(cfg Config) http.Handler {
	store := cfg.Store
	if store == nil {
		store = NewMemStore()
	}
	maxLA := cfg.MaxLookahead
	if maxLA < 1 {
		maxLA = 1
	}

	api := &API{
		Store:        store,
		Secret:       cfg.Secret,
		PasswordHash: cfg.PasswordHash,
		UnauthDelay:  cfg.UnauthDelay,
		MaxLookahead: maxLA,
	}
	return api.NewRouter()
}

// Serve starts listening on cfg.ListenAddr and blocks until the server
// exits with an error.
func Serve(cfg Config) error {
	handler := NewServer(cfg)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
