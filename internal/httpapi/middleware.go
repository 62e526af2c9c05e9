package httpapi

import (
	"context"
	"net/http"
	"time"
)

// Middleware wraps a handler with additional behavior.
type Middleware func(next http.Handler) http.Handler

// AuthKey names a value an AuthHandler adds to the request context.
type AuthKey int

const (
	AuthLoggedIn AuthKey = iota
)

// authHandler validates the bearer token on every request and, when auth is
// required, rejects the request before it reaches next.
type authHandler struct {
	secret        []byte
	passwordHash  []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *authHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	loggedIn := false

	tok, err := bearerToken(req)
	if err == nil {
		err = validateToken(tok, ah.secret, ah.passwordHash)
	}
	if err != nil {
		if ah.required {
			r := Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			r.WriteResponse(w)
			return
		}
	} else {
		loggedIn = true
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// RequireAuth rejects any request without a valid bearer token.
func RequireAuth(secret, passwordHash []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &authHandler{secret: secret, passwordHash: passwordHash, unauthedDelay: unauthDelay, required: true, next: next}
	}
}
