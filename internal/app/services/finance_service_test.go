package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/campora/campora/internal/app/models"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 30)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		paid    decimal.Decimal
		dueDate time.Time
		want    models.InvoiceStatus
	}{
		{"unpaid before due", decimal.Zero, future, models.InvoiceIssued},
		{"partial before due", decimal.NewFromInt(400), future, models.InvoicePartiallyPaid},
		{"fully paid", decimal.NewFromInt(1000), future, models.InvoicePaid},
		{"overpaid still paid", decimal.NewFromInt(1200), past, models.InvoicePaid},
		{"unpaid past due", decimal.Zero, past, models.InvoiceOverdue},
		{"partial past due", decimal.NewFromInt(999), past, models.InvoiceOverdue},
		{"paid past due stays paid", decimal.NewFromInt(1000), past, models.InvoicePaid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, deriveInvoiceStatus(amount, tc.paid, tc.dueDate, now))
		})
	}
}

func TestInvoiceOutstanding(t *testing.T) {
	inv := &models.Invoice{
		Amount: decimal.NewFromInt(1000),
		Paid:   decimal.NewFromInt(300),
	}
	assert.True(t, inv.Outstanding().Equal(decimal.NewFromInt(700)))

	inv.Paid = decimal.NewFromInt(1200)
	assert.True(t, inv.Outstanding().IsZero())
}
