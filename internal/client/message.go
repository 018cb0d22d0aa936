package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/whatsapp"
)

// ErrNoPhone is returned when the client has no usable phone number on file.
var ErrNoPhone = errors.New("client has no registered phone number")

// Message is a composed dunning message ready to hand to a messaging client.
type Message struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// ComposeDunningMessage renders the polite balance reminder the pharmacy
// sends to clients with an outstanding balance.
func ComposeDunningMessage(c Client) (Message, error) {
	number := whatsapp.Digits(c.Telefone)
	if number == "" {
		return Message{}, ErrNoPhone
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s, tudo bem? 🙂\n\n", c.Nome)
	b.WriteString("Espero que esteja tudo bem! Estou entrando em contato para verificar a possibilidade de regularizar seu saldo pendente em nossa farmácia.\n\n")
	fmt.Fprintf(&b, "O valor atual é de %s.\n\n", common.FormatBRL(c.SaldoDevedor))
	b.WriteString("Estamos à disposição para discutir formas de pagamento que melhor se adequem à sua situação.\n\n")
	b.WriteString("Caso precise de mais informações ou queira discutir um plano de pagamento, estamos aqui para ajudar.\n\n")
	b.WriteString("Agradecemos sua atenção e preferência! 🙏")

	text := b.String()
	return Message{Text: text, Link: whatsapp.Link(number, text)}, nil
}
