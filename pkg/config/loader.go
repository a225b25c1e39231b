package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/avukalov/dashboard-core/pkg/errors"
)

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// Loader reads Config from YAML files with variable expansion.
type Loader struct {
	expander VariableExpander
}

// NewLoader creates a Loader. A nil expander disables expansion.
func NewLoader(expander VariableExpander) *Loader {
	return &Loader{expander: expander}
}

// Load reads and parses a YAML config file.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return l.Parse(data)
}

// Parse parses a yaml config
func (l *Loader) Parse(data []byte) (*Config, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.WrapError(
			fmt.Errorf("validation errors: %v", errs),
			errors.ErrConfiguration,
			"load config",
		)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. A .env file in the
// working directory is loaded first when present.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GraphQLURL:   os.Getenv("HASURA_URL"),
		GraphQLWSURL: os.Getenv("HASURA_WS_URL"),
		AdminSecret:  os.Getenv("HASURA_SECRET"),
		Identity: Identity{
			TokenURL:     os.Getenv("AUTH_TOKEN_URL"),
			ClientID:     os.Getenv("AUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("AUTH_CLIENT_SECRET"),
			Audience:     os.Getenv("AUTH_AUDIENCE"),
		},
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.WrapError(
			fmt.Errorf("validation errors: %v", errs),
			errors.ErrConfiguration,
			"load config from environment",
		)
	}

	return cfg, nil
}

// Validate checks field presence. The identity section is optional as a
// whole; once a token URL is set the client credentials must be complete.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.GraphQLURL == "" {
		errs = append(errs, ValidationError{Field: "graphql_url", Message: "is required"})
	}
	if c.AdminSecret == "" {
		errs = append(errs, ValidationError{Field: "admin_secret", Message: "is required"})
	}

	if c.Identity.TokenURL != "" {
		if c.Identity.ClientID == "" {
			errs = append(errs, ValidationError{Field: "identity.client_id", Message: "is required when token_url is set"})
		}
		if c.Identity.ClientSecret == "" {
			errs = append(errs, ValidationError{Field: "identity.client_secret", Message: "is required when token_url is set"})
		}
	}

	return errs
}
