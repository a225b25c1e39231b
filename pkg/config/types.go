package config

// Config holds everything the data-access layer needs to reach its
// external collaborators: the GraphQL gateway and the identity provider.
type Config struct {
	// GraphQLURL is the HTTP(S) endpoint of the GraphQL gateway.
	GraphQLURL string `yaml:"graphql_url"`

	// GraphQLWSURL is the websocket endpoint used for subscriptions.
	// Core flows never open it, but deployments are expected to set it.
	GraphQLWSURL string `yaml:"graphql_ws_url"`

	// AdminSecret is the shared secret for the privileged gateway path.
	AdminSecret string `yaml:"admin_secret"`

	// Identity configures the token endpoint of the identity provider.
	Identity Identity `yaml:"identity"`
}

// Identity holds client-credentials settings for obtaining access tokens.
// An empty TokenURL means requests go out anonymously.
type Identity struct {
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Audience     string `yaml:"audience"`
}

// ValidationError reports a single missing or malformed config field.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the string representation of a validation error.
func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
