package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// TokenFetchError represents a failed token endpoint call.
type TokenFetchError struct {
	Cause error
}

func (e *TokenFetchError) Error() string {
	return fmt.Sprintf("token fetch failed: %v", e.Cause)
}

func (e *TokenFetchError) Unwrap() error {
	return e.Cause
}

// ClientCredentialsProvider obtains access tokens from the identity
// provider with the client credentials grant and caches them until close
// to expiry. The token itself stays opaque to callers.
type ClientCredentialsProvider struct {
	// Configuration
	TokenURL      string // identity provider token endpoint URL
	ClientID      string
	ClientSecret  string
	Audience      string // optional audience for the token
	RefreshBefore int    // Seconds before expiry to refresh token

	httpClient *http.Client

	// Token state
	accessToken string
	expiresAt   time.Time
	mutex       sync.Mutex // prevent concurrent token refreshes

	// Concurrency control
	refreshInProgress bool
	refreshCond       *sync.Cond
}

// tokenResponse represents the response from the token endpoint
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// NewClientCredentialsProvider creates a token provider for the given
// identity provider endpoint.
func NewClientCredentialsProvider(tokenURL, clientID, clientSecret, audience string, refreshBefore int) (*ClientCredentialsProvider, error) {
	if tokenURL == "" {
		return nil, fmt.Errorf("token URL is required for client credentials")
	}
	if clientID == "" {
		return nil, fmt.Errorf("client ID is required for client credentials")
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("client secret is required for client credentials")
	}

	p := &ClientCredentialsProvider{
		TokenURL:      tokenURL,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		Audience:      audience,
		RefreshBefore: refreshBefore,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}

	p.refreshCond = sync.NewCond(&p.mutex)

	return p, nil
}

// tokenFresh reports whether the cached token is still outside the refresh
// margin. Callers must hold p.mutex.
func (p *ClientCredentialsProvider) tokenFresh() bool {
	refreshBefore := 60
	if p.RefreshBefore > 0 {
		refreshBefore = p.RefreshBefore
	}
	return p.accessToken != "" && time.Until(p.expiresAt) > time.Duration(refreshBefore)*time.Second
}

// Token returns a cached access token, refreshing it when it is within the
// refresh margin of expiry. The mutex is released during the endpoint call
// so concurrent requests wait on the in-flight refresh instead of queueing
// behind it.
func (p *ClientCredentialsProvider) Token(ctx context.Context) (string, error) {
	p.mutex.Lock()

	for {
		if p.tokenFresh() {
			token := p.accessToken
			p.mutex.Unlock()
			return token, nil
		}
		if !p.refreshInProgress {
			break
		}
		// Another goroutine is refreshing; wait for its broadcast and
		// re-check the cache.
		p.refreshCond.Wait()
	}

	p.refreshInProgress = true
	p.mutex.Unlock()

	token, expiresAt, err := p.fetchToken(ctx)

	p.mutex.Lock()
	p.refreshInProgress = false
	p.refreshCond.Broadcast()

	if err != nil {
		// The stale token may still be usable within its lifetime
		if p.accessToken != "" && time.Now().Before(p.expiresAt) {
			stale := p.accessToken
			p.mutex.Unlock()
			return stale, nil
		}
		p.mutex.Unlock()
		return "", &TokenFetchError{Cause: err}
	}

	p.accessToken = token
	p.expiresAt = expiresAt
	p.mutex.Unlock()
	return token, nil
}

// fetchToken calls the token endpoint with the client credentials grant.
// It takes no locks.
func (p *ClientCredentialsProvider) fetchToken(ctx context.Context) (string, time.Time, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", p.ClientID)
	data.Set("client_secret", p.ClientSecret)
	if p.Audience != "" {
		data.Set("audience", p.Audience)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, fmt.Errorf("token request returned status %d: %s", resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("token response contained no access token")
	}

	return tokenResp.AccessToken, time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second), nil
}
