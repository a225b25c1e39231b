package auth

import (
	"fmt"
	"sync"

	"github.com/avukalov/dashboard-core/pkg/errors"
)

// Mode selects the head of the request link chain.
type Mode string

const (
	// ModeUser resolves a per-request bearer token from the token provider.
	ModeUser Mode = "user"
	// ModeAdmin attaches the shared admin secret. Trusted flows only.
	ModeAdmin Mode = "admin"
)

// Options carries the inputs handler creators may need.
type Options struct {
	Provider    TokenProvider // for ModeUser
	AdminSecret string        // for ModeAdmin
}

// Creator defines a function that creates an auth handler from options
type Creator func(*Options) (Handler, error)

// Registry maintains a registry of auth handler creators keyed by Mode
type Registry struct {
	creators map[Mode]Creator
	mutex    sync.RWMutex
}

// NewRegistry creates a new auth registry with the default handlers
func NewRegistry() *Registry {
	registry := &Registry{
		creators: make(map[Mode]Creator),
	}

	// Register default handlers
	registry.Register(ModeUser, createBearerAuth)
	registry.Register(ModeAdmin, createAdminSecretAuth)
	return registry
}

// Register adds a new auth creator to the registry
func (r *Registry) Register(mode Mode, creator Creator) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.creators[mode] = creator
}

// Create creates an auth handler for the given mode
func (r *Registry) Create(mode Mode, opts *Options) (Handler, error) {
	r.mutex.RLock()
	creator, exists := r.creators[mode]
	r.mutex.RUnlock()

	if !exists {
		return nil, errors.WrapError(
			fmt.Errorf("unsupported auth mode: %s", mode),
			errors.ErrConfiguration,
			"invalid auth mode",
		)
	}

	return creator(opts)
}

func createBearerAuth(opts *Options) (Handler, error) {
	if opts == nil || opts.Provider == nil {
		return nil, errors.WrapError(
			fmt.Errorf("token provider is required"),
			errors.ErrConfiguration,
			"create bearer auth",
		)
	}
	return NewBearerAuth(opts.Provider), nil
}

func createAdminSecretAuth(opts *Options) (Handler, error) {
	if opts == nil || opts.AdminSecret == "" {
		return nil, errors.WrapError(
			fmt.Errorf("admin secret is required"),
			errors.ErrConfiguration,
			"create admin auth",
		)
	}
	return NewAdminSecretAuth(opts.AdminSecret), nil
}
