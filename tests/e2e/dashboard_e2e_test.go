package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avukalov/dashboard-core/pkg/auth"
	"github.com/avukalov/dashboard-core/pkg/config"
	"github.com/avukalov/dashboard-core/pkg/dashboard"
)

// TestDashboard_BearerFlow drives the facade end to end against a gateway
// that rejects anything without the expected bearer token.
func TestDashboard_BearerFlow(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Header.Get("Authorization") != "Bearer test-token-123" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"errors": []interface{}{
					map[string]interface{}{"message": "Invalid token"},
				},
			})
			return
		}

		var body struct {
			Query string `json:"query"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		switch {
		case strings.Contains(body.Query, "fetchFilteredInvoices"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{
					"invoices_customers": []interface{}{
						map[string]interface{}{
							"id": "1", "amount": 1599, "date": "2024-03-09",
							"status": "pending", "name": "Acme",
							"email": "acme@example.com", "image_url": "/a.png",
						},
						map[string]interface{}{
							"id": "2", "amount": 250000, "date": "2024-03-08",
							"status": "paid", "name": "Globex",
							"email": "globex@example.com", "image_url": "/g.png",
						},
					},
				},
			})
		case strings.Contains(body.Query, "fetchInvoicesPages"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{
					"invoices_customers_aggregate": map[string]interface{}{
						"aggregate": map[string]interface{}{"count": 8},
					},
				},
			})
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{},
			})
		}
	}))
	defer mockServer.Close()

	cfg := &config.Config{
		GraphQLURL:  mockServer.URL,
		AdminSecret: "admin-secret",
	}

	dash, err := dashboard.New(cfg,
		dashboard.WithTokenProvider(auth.StaticTokenProvider("test-token-123")),
	)
	if err != nil {
		t.Fatalf("Failed to create dashboard: %v", err)
	}

	rows, err := dash.FilteredInvoices(context.Background(), "", 1, dashboard.DefaultOrderBy())
	if err != nil {
		t.Fatalf("FilteredInvoices failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}

	pages, err := dash.InvoicePages(context.Background(), "")
	if err != nil {
		t.Fatalf("InvoicePages failed: %v", err)
	}
	if pages != 2 {
		t.Errorf("Expected 2 pages for count 8, got %d", pages)
	}
}

// TestDashboard_RejectedToken verifies that a gateway rejection surfaces
// as the opaque domain failure, not the raw gateway message.
func TestDashboard_RejectedToken(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []interface{}{
				map[string]interface{}{"message": "Invalid token"},
			},
		})
	}))
	defer mockServer.Close()

	cfg := &config.Config{
		GraphQLURL:  mockServer.URL,
		AdminSecret: "admin-secret",
	}

	dash, err := dashboard.New(cfg,
		dashboard.WithTokenProvider(auth.StaticTokenProvider("wrong-token")),
	)
	if err != nil {
		t.Fatalf("Failed to create dashboard: %v", err)
	}

	_, err = dash.LatestInvoices(context.Background())
	if err == nil {
		t.Fatal("Expected failure")
	}
	if strings.Contains(err.Error(), "Invalid token") {
		t.Errorf("Raw gateway message leaked: %v", err)
	}
}
