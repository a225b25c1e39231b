package auth

import (
	"context"
	"net/http"
)

// Handler defines the interface for auth handlers
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// TokenProvider obtains a bearer credential for the current request.
// Returning an empty token is not an error: the request simply goes out
// without an authorization header and the gateway decides what to do.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f TokenProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticTokenProvider always returns the same token.
type StaticTokenProvider string

// Token returns the static token.
func (s StaticTokenProvider) Token(context.Context) (string, error) {
	return string(s), nil
}
