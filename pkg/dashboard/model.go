package dashboard

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the closed set of invoice states.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Date is a calendar day with no time component. It marshals as
// YYYY-MM-DD, matching the gateway's date scalar.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// Today returns the current calendar day.
func Today() Date {
	return Date{time.Now()}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Customer is read-only from this layer's perspective.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// CustomerField is the slim projection used to populate selectors.
type CustomerField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomerSummary is the per-customer roll-up for the customers table.
// Totals arrive as minor units and are formatted at the boundary.
type CustomerSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int    `json:"total_invoices"`
	TotalPending  string `json:"total_pending"`
	TotalPaid     string `json:"total_paid"`
}

// InvoiceRow is the flattened invoice x customer projection the filtered
// table renders. Produced by the query layer, never stored.
type InvoiceRow struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Date     Date   `json:"date"`
	Status   Status `json:"status"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// LatestInvoice is one entry of the five-row recency widget, with the
// amount already formatted for display.
type LatestInvoice struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// InvoiceForm is the edit-form projection of a single invoice. Amount is
// in major units here; the read path converts from cents.
type InvoiceForm struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Amount     float64 `json:"amount"`
	Status     Status  `json:"status"`
}

// CardData aggregates the four dashboard cards.
type CardData struct {
	NumberOfInvoices  int    `json:"number_of_invoices"`
	NumberOfCustomers int    `json:"number_of_customers"`
	TotalPaid         string `json:"total_paid"`
	TotalPending      string `json:"total_pending"`
}

// User is the account record behind a login email. Privileged lookup only.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
