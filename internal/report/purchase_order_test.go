package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nandoportifolio33/cotacao-api/internal/quote"
)

func TestPurchaseOrder(t *testing.T) {
	winners := quote.RepresentativeWinners{
		Representative: "Ana",
		Quotes: []quote.Quote{
			{ID: uuid.New(), ProductName: "Dipirona 500mg", UnitPrice: 8.00, Quantity: 3, Unit: "caixa"},
			{ID: uuid.New(), ProductName: "Soro Fisiológico", UnitPrice: 2.50, Quantity: 10, Unit: "frasco"},
		},
		Total: 49.00,
	}

	pdf, err := PurchaseOrder(winners, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output must be a PDF document")
	require.Greater(t, len(pdf), 500)
}

func TestPurchaseOrderEmpty(t *testing.T) {
	_, err := PurchaseOrder(quote.RepresentativeWinners{Representative: "Ana"}, time.Now())
	require.ErrorIs(t, err, quote.ErrEmptySelection)
}
