package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testCustomerID = "3958dc9e-712f-4377-85e9-fec4b6a6442a"

func TestInvoiceInputValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := InvoiceInput{CustomerID: testCustomerID, Amount: 15.99, Status: StatusPending}
		assert.Nil(t, in.Validate())
	})

	t.Run("zero amount", func(t *testing.T) {
		in := InvoiceInput{CustomerID: testCustomerID, Amount: 0, Status: StatusPaid}
		errs := in.Validate()
		assert.Contains(t, errs, "amount")
	})

	t.Run("negative amount", func(t *testing.T) {
		in := InvoiceInput{CustomerID: testCustomerID, Amount: -3, Status: StatusPaid}
		errs := in.Validate()
		assert.Contains(t, errs, "amount")
	})

	t.Run("missing customer", func(t *testing.T) {
		in := InvoiceInput{Amount: 10, Status: StatusPending}
		errs := in.Validate()
		assert.Contains(t, errs, "customer_id")
	})

	t.Run("malformed customer id", func(t *testing.T) {
		in := InvoiceInput{CustomerID: "not-a-uuid", Amount: 10, Status: StatusPending}
		errs := in.Validate()
		assert.Contains(t, errs, "customer_id")
	})

	t.Run("unknown status", func(t *testing.T) {
		in := InvoiceInput{CustomerID: testCustomerID, Amount: 10, Status: Status("overdue")}
		errs := in.Validate()
		assert.Contains(t, errs, "status")
	})

	t.Run("all fields wrong", func(t *testing.T) {
		errs := InvoiceInput{}.Validate()
		assert.Len(t, errs, 3)
	})
}

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{15.99, 1599},
		{1500, 150000},
		{0.01, 1},
		{10.555, 1056}, // rounds, never truncates
		{19.998, 2000},
	}
	for _, tt := range tests {
		in := InvoiceInput{Amount: tt.amount}
		assert.Equal(t, tt.want, in.AmountInCents(), "amount=%v", tt.amount)
	}
}
