package auth

import (
	"fmt"
	"net/http"

	"github.com/avukalov/dashboard-core/pkg/errors"
)

// AdminSecretHeader is the gateway header carrying the shared admin secret.
const AdminSecretHeader = "x-hasura-admin-secret"

// AdminSecretAuth attaches the shared admin secret. Privileged internal
// flows only; never wire it to anything reachable with user input.
type AdminSecretAuth struct {
	Secret string
}

// NewAdminSecretAuth creates an admin-secret authentication handler.
func NewAdminSecretAuth(secret string) *AdminSecretAuth {
	return &AdminSecretAuth{
		Secret: secret,
	}
}

// ApplyAuth sets the admin secret header on the request.
func (a *AdminSecretAuth) ApplyAuth(req *http.Request) error {
	if a.Secret == "" {
		return errors.WrapError(
			fmt.Errorf("admin secret is required"),
			errors.ErrConfiguration,
			"apply admin auth",
		)
	}

	req.Header.Set(AdminSecretHeader, a.Secret)
	return nil
}

// String returns a string representation of this auth method for testing
func (a *AdminSecretAuth) String() string {
	// There is no need to actually put the actual secret
	return "AdminSecretAuth(secret: [REDACTED])"
}
