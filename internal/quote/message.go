package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/whatsapp"
)

var (
	// ErrNoContact is returned when the representative has no WhatsApp number on file.
	ErrNoContact = errors.New("representative has no registered contact number")
	// ErrEmptySelection is returned when no quotes were selected for the purchase message.
	ErrEmptySelection = errors.New("no quotes selected")
)

// Message is a composed purchase request ready to hand to a messaging client.
type Message struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// ComposePurchaseMessage renders a representative's selected winning quotes as
// a pt-BR purchase request: dated greeting, one block per item with quantity,
// unit price and line total, the grand total and a confirmation request. The
// text is percent-encoded into a wa.me deep link. It refuses to compose when
// the contact number is missing or the selection is empty.
func ComposePurchaseMessage(representative, contact string, selection []Quote, now time.Time) (Message, error) {
	number := whatsapp.Digits(contact)
	if number == "" {
		return Message{}, ErrNoContact
	}
	if len(selection) == 0 {
		return Message{}, ErrEmptySelection
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s, tudo bem?\n\n", representative)
	fmt.Fprintf(&b, "Segue nosso pedido de compra (%s):\n\n", now.Format("02/01/2006"))

	var total float64
	for _, q := range selection {
		line := q.LineTotal()
		total += line
		fmt.Fprintf(&b, "• %s\n", q.ProductName)
		fmt.Fprintf(&b, "  %d %s x %s = %s\n", q.Quantity, q.Unit, common.FormatBRL(q.UnitPrice), common.FormatBRL(line))
	}

	fmt.Fprintf(&b, "\nTotal do pedido: %s\n\n", common.FormatBRL(total))
	b.WriteString("Pode confirmar a disponibilidade e o prazo de entrega?")

	text := b.String()
	return Message{
		Text: text,
		Link: whatsapp.Link(number, text),
	}, nil
}
