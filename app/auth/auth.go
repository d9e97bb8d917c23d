// Package auth verifies caller identities and attaches them to requests.
package auth

import (
	"context"
	"net/http"

	"github.com/ankproject/ank-api/internal/errors"
	"github.com/ankproject/ank-api/internal/monitor"
)

var (
	logger = monitor.NewModuleLogger("auth")

	ErrNoAuthInfo   = errors.Base("authentication token missing")
	ErrInvalidToken = errors.Base("invalid authentication token")
)

type ctxKey int

const contextKey ctxKey = iota

// Identity is a verified caller. Fields are passed on as received from the identity provider.
type Identity struct {
	UID   string
	Email string
}

// GetTraceData returns identity fields suitable for logging.
func (i Identity) GetTraceData() map[string]string {
	return map[string]string{"uid": i.UID}
}

// Authenticator turns a bearer token into a verified identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, token string) (*Identity, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

// FromRequest retrieves identity from http.Request that went through our Middleware.
func FromRequest(r *http.Request) (*Identity, error) {
	v, ok := r.Context().Value(contextKey).(*Identity)
	if !ok || v == nil {
		return nil, errors.Prefix("auth.Middleware is required", ErrNoAuthInfo)
	}
	return v, nil
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKey, identity)
}
