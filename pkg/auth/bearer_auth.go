package auth

import (
	"fmt"
	"net/http"

	"github.com/avukalov/dashboard-core/pkg/errors"
)

// BearerAuth resolves a token per request and sets the Authorization header.
// Each request resolves its own token off its own context, so concurrent
// operations sharing one client never block on each other here.
type BearerAuth struct {
	Provider TokenProvider
}

// NewBearerAuth creates a bearer authentication handler backed by a provider.
func NewBearerAuth(provider TokenProvider) *BearerAuth {
	return &BearerAuth{
		Provider: provider,
	}
}

// ApplyAuth sets "Authorization: Bearer <token>" when a token is available.
// A provider failure or an absent token degrades to an anonymous request:
// the header is omitted entirely, never sent empty.
func (b *BearerAuth) ApplyAuth(req *http.Request) error {
	if b.Provider == nil {
		return errors.WrapError(
			fmt.Errorf("token provider is required"),
			errors.ErrConfiguration,
			"apply bearer auth",
		)
	}

	token, err := b.Provider.Token(req.Context())
	if err != nil || token == "" {
		return nil
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// String returns a string representation of this auth method for testing
func (b *BearerAuth) String() string {
	return "BearerAuth(provider)"
}
