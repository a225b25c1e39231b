package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avukalov/dashboard-core/pkg/errors"
)

// Helper functions for tests
func assertHeader(t *testing.T, req *http.Request, header, expected string) {
	t.Helper()
	if value := req.Header.Get(header); value != expected {
		t.Errorf("Expected %s header '%s', got '%s'", header, expected, value)
	}
}

func assertNoHeader(t *testing.T, req *http.Request, header string) {
	t.Helper()
	if values, ok := req.Header[http.CanonicalHeaderKey(header)]; ok {
		t.Errorf("Expected %s header to be absent, got %v", header, values)
	}
}

func assertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing '%s', got nil", expected)
		return
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error containing '%s', got '%s'", expected, err.Error())
	}
}

func TestBearerAuth(t *testing.T) {
	t.Run("TokenPresent", func(t *testing.T) {
		auth := NewBearerAuth(StaticTokenProvider("test-token-123"))
		req, _ := http.NewRequest("POST", "https://gateway.example.com/v1/graphql", nil)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		assertHeader(t, req, "Authorization", "Bearer test-token-123")
	})

	t.Run("TokenAbsent", func(t *testing.T) {
		auth := NewBearerAuth(StaticTokenProvider(""))
		req, _ := http.NewRequest("POST", "https://gateway.example.com/v1/graphql", nil)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		// The header must be omitted entirely, not sent empty.
		assertNoHeader(t, req, "Authorization")
	})

	t.Run("ProviderFailureDegradesToAnonymous", func(t *testing.T) {
		provider := TokenProviderFunc(func(context.Context) (string, error) {
			return "", fmt.Errorf("identity provider unreachable")
		})
		auth := NewBearerAuth(provider)
		req, _ := http.NewRequest("POST", "https://gateway.example.com/v1/graphql", nil)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth should not fail on provider error, got: %v", err)
		}

		assertNoHeader(t, req, "Authorization")
	})

	t.Run("NilProvider", func(t *testing.T) {
		auth := &BearerAuth{}
		req, _ := http.NewRequest("POST", "https://gateway.example.com/v1/graphql", nil)

		err := auth.ApplyAuth(req)
		assertErrorContains(t, err, "token provider is required")
		if !errors.Is(err, errors.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration, got %v", err)
		}
	})
}

func TestAdminSecretAuth(t *testing.T) {
	t.Run("SecretPresent", func(t *testing.T) {
		auth := NewAdminSecretAuth("super-secret")
		req, _ := http.NewRequest("POST", "https://gateway.example.com/v1/graphql", nil)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		assertHeader(t, req, AdminSecretHeader, "super-secret")
	})

	t.Run("SecretMissing", func(t *testing.T) {
		auth := NewAdminSecretAuth("")
		req, _ := http.NewRequest("POST", "https://gateway.example.com/v1/graphql", nil)

		err := auth.ApplyAuth(req)
		assertErrorContains(t, err, "admin secret is required")
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	t.Run("UserMode", func(t *testing.T) {
		h, err := registry.Create(ModeUser, &Options{Provider: StaticTokenProvider("tok")})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, ok := h.(*BearerAuth); !ok {
			t.Errorf("Expected *BearerAuth, got %T", h)
		}
	})

	t.Run("AdminMode", func(t *testing.T) {
		h, err := registry.Create(ModeAdmin, &Options{AdminSecret: "secret"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, ok := h.(*AdminSecretAuth); !ok {
			t.Errorf("Expected *AdminSecretAuth, got %T", h)
		}
	})

	t.Run("UnknownMode", func(t *testing.T) {
		_, err := registry.Create(Mode("root"), &Options{})
		assertErrorContains(t, err, "unsupported auth mode")
	})

	t.Run("UserModeWithoutProvider", func(t *testing.T) {
		_, err := registry.Create(ModeUser, &Options{})
		assertErrorContains(t, err, "token provider is required")
	})

	t.Run("AdminModeWithoutSecret", func(t *testing.T) {
		_, err := registry.Create(ModeAdmin, &Options{})
		assertErrorContains(t, err, "admin secret is required")
	})
}

func TestClientCredentialsProvider(t *testing.T) {
	t.Run("FetchesAndCachesToken", func(t *testing.T) {
		var calls int32
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)

			if err := r.ParseForm(); err != nil {
				t.Fatalf("ParseForm failed: %v", err)
			}
			if got := r.Form.Get("grant_type"); got != "client_credentials" {
				t.Errorf("Expected grant_type client_credentials, got %s", got)
			}
			if got := r.Form.Get("audience"); got != "dashboard-api" {
				t.Errorf("Expected audience dashboard-api, got %s", got)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "issued-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		defer mockServer.Close()

		provider, err := NewClientCredentialsProvider(mockServer.URL, "client-id", "client-secret", "dashboard-api", 0)
		if err != nil {
			t.Fatalf("NewClientCredentialsProvider failed: %v", err)
		}

		for i := 0; i < 3; i++ {
			token, err := provider.Token(context.Background())
			if err != nil {
				t.Fatalf("Token failed: %v", err)
			}
			if token != "issued-token" {
				t.Errorf("Expected issued-token, got %s", token)
			}
		}

		if got := atomic.LoadInt32(&calls); got != 1 {
			t.Errorf("Expected 1 token endpoint call, got %d", got)
		}
	})

	t.Run("ConcurrentCallsShareOneRefresh", func(t *testing.T) {
		var calls int32
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			time.Sleep(50 * time.Millisecond)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "shared-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		defer mockServer.Close()

		provider, err := NewClientCredentialsProvider(mockServer.URL, "client-id", "client-secret", "", 0)
		if err != nil {
			t.Fatalf("NewClientCredentialsProvider failed: %v", err)
		}

		var wg sync.WaitGroup
		errs := make([]error, 5)
		tokens := make([]string, 5)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tokens[i], errs[i] = provider.Token(context.Background())
			}(i)
		}
		wg.Wait()

		for i := 0; i < 5; i++ {
			if errs[i] != nil {
				t.Fatalf("Token failed: %v", errs[i])
			}
			if tokens[i] != "shared-token" {
				t.Errorf("Expected shared-token, got %s", tokens[i])
			}
		}

		if got := atomic.LoadInt32(&calls); got != 1 {
			t.Errorf("Expected 1 token endpoint call, got %d", got)
		}
	})

	t.Run("EndpointFailure", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		defer mockServer.Close()

		provider, err := NewClientCredentialsProvider(mockServer.URL, "client-id", "client-secret", "", 0)
		if err != nil {
			t.Fatalf("NewClientCredentialsProvider failed: %v", err)
		}

		_, err = provider.Token(context.Background())
		assertErrorContains(t, err, "token fetch failed")
	})

	t.Run("MissingConfig", func(t *testing.T) {
		_, err := NewClientCredentialsProvider("", "id", "secret", "", 0)
		assertErrorContains(t, err, "token URL is required")

		_, err = NewClientCredentialsProvider("https://idp.example.com/token", "", "secret", "", 0)
		assertErrorContains(t, err, "client ID is required")
	})
}
