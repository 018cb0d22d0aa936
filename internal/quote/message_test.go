package quote

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComposePurchaseMessage(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	selection := []Quote{
		q("Dipirona 500mg", "Ana", 8.00, 3),
		q("Amoxicilina 250mg", "Ana", 4.50, 2),
	}

	msg, err := ComposePurchaseMessage("Ana", "(11) 98765-4321", selection, now)
	require.NoError(t, err)

	require.Contains(t, msg.Text, "Olá Ana, tudo bem?")
	require.Contains(t, msg.Text, "pedido de compra (15/03/2026)")
	require.Contains(t, msg.Text, "• Dipirona 500mg")
	require.Contains(t, msg.Text, "3 caixa x R$ 8,00 = R$ 24,00")
	require.Contains(t, msg.Text, "• Amoxicilina 250mg")
	require.Contains(t, msg.Text, "2 caixa x R$ 4,50 = R$ 9,00")
	require.Contains(t, msg.Text, "Total do pedido: R$ 33,00")
	require.Contains(t, msg.Text, "confirmar a disponibilidade")

	require.True(t, strings.HasPrefix(msg.Link, "https://wa.me/5511987654321?text="), msg.Link)
	require.NotContains(t, msg.Link, "+", "spaces must be encoded as %%20, not +")

	// link round-trips back to the exact text
	u, err := url.Parse(msg.Link)
	require.NoError(t, err)
	require.Equal(t, msg.Text, u.Query().Get("text"))
}

func TestComposePurchaseMessageNoContact(t *testing.T) {
	_, err := ComposePurchaseMessage("Ana", "", []Quote{q("X", "Ana", 1, 1)}, time.Now())
	require.ErrorIs(t, err, ErrNoContact)

	// a contact with no digits is as good as none
	_, err = ComposePurchaseMessage("Ana", "sem número", []Quote{q("X", "Ana", 1, 1)}, time.Now())
	require.ErrorIs(t, err, ErrNoContact)
}

func TestComposePurchaseMessageEmptySelection(t *testing.T) {
	_, err := ComposePurchaseMessage("Ana", "11987654321", nil, time.Now())
	require.ErrorIs(t, err, ErrEmptySelection)
}
