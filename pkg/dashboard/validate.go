package dashboard

import (
	"math"

	"github.com/google/uuid"
)

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

// MutationResult is the structured outcome handed back to the rendering
// layer after a form-bound mutation.
type MutationResult struct {
	OK      bool        `json:"ok"`
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

// InvoiceInput is what the create/update forms submit. Amount is in major
// currency units; conversion to minor units happens after validation.
type InvoiceInput struct {
	CustomerID string  `json:"customer_id"`
	Amount     float64 `json:"amount"`
	Status     Status  `json:"status"`
}

// Validate checks the input before any network call and reports problems
// per field.
func (in InvoiceInput) Validate() FieldErrors {
	errs := make(FieldErrors)

	if in.CustomerID == "" {
		errs["customer_id"] = append(errs["customer_id"], "Please select a customer.")
	} else if _, err := uuid.Parse(in.CustomerID); err != nil {
		errs["customer_id"] = append(errs["customer_id"], "Customer id must be a valid UUID.")
	}

	if in.Amount <= 0 {
		errs["amount"] = append(errs["amount"], "Please enter an amount greater than $0.")
	}

	if !in.Status.Valid() {
		errs["status"] = append(errs["status"], "Please select an invoice status.")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AmountInCents converts the major-unit amount to minor units.
func (in InvoiceInput) AmountInCents() int64 {
	return int64(math.Round(in.Amount * 100))
}
