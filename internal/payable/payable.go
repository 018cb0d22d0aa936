// Package payable manages the pharmacy's accounts payable.
package payable

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Statuses a payable can carry.
const (
	StatusEmAberto = "em_aberto"
	StatusPago     = "pago"
	StatusAtrasado = "atrasado"
)

// ValidStatus reports whether s is a known payable status.
func ValidStatus(s string) bool {
	switch s {
	case StatusEmAberto, StatusPago, StatusAtrasado:
		return true
	}
	return false
}

// Payment methods accepted on a payable.
const (
	PaymentDinheiro = "dinheiro"
	PaymentPix      = "pix"
	PaymentBoleto   = "boleto"
	PaymentCartao   = "cartao"
)

// Payable is one account payable. Fornecedor and Categoria are denormalised
// names filled on reads; only the ids are written.
type Payable struct {
	ID             uuid.UUID  `json:"id"`
	Descricao      string     `json:"descricao"`
	FornecedorID   *uuid.UUID `json:"fornecedor_id,omitempty"`
	Fornecedor     string     `json:"fornecedor,omitempty"`
	CategoriaID    *uuid.UUID `json:"categoria_id,omitempty"`
	Categoria      string     `json:"categoria,omitempty"`
	ValorTotal     float64    `json:"valor_total"`
	DataEmissao    string     `json:"data_emissao,omitempty"`
	DataVencimento string     `json:"data_vencimento"`
	FormaPagamento string     `json:"forma_pagamento,omitempty"`
	Parcelado      bool       `json:"parcelado"`
	NumeroParcelas int        `json:"numero_parcelas,omitempty"`
	Status         string     `json:"status"`
	ValorPago      float64    `json:"valor_pago,omitempty"`
	DataPagamento  *time.Time `json:"data_pagamento,omitempty"`
	Observacoes    string     `json:"observacoes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Normalize trims text fields and defaults the status.
func (p *Payable) Normalize() {
	p.Descricao = strings.TrimSpace(p.Descricao)
	p.DataEmissao = strings.TrimSpace(p.DataEmissao)
	p.DataVencimento = strings.TrimSpace(p.DataVencimento)
	p.FormaPagamento = strings.TrimSpace(p.FormaPagamento)
	p.Observacoes = strings.TrimSpace(p.Observacoes)
	if p.Status == "" {
		p.Status = StatusEmAberto
	}
	if !p.Parcelado {
		p.NumeroParcelas = 0
	}
}

// dueDateLayout is how due dates are stored and exchanged.
const dueDateLayout = "2006-01-02"

// Overdue reports whether an open payable is past its due date.
func (p *Payable) Overdue(now time.Time) bool {
	if p.Status != StatusEmAberto || p.DataVencimento == "" {
		return false
	}
	due, err := time.Parse(dueDateLayout, p.DataVencimento)
	if err != nil {
		return false
	}
	// due on the day itself is not yet late
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.After(due)
}

// EffectiveStatus is the status shown in listings: open payables past their
// due date surface as atrasado without a write.
func (p *Payable) EffectiveStatus(now time.Time) string {
	if p.Overdue(now) {
		return StatusAtrasado
	}
	return p.Status
}

// Ref is a lookup row for fornecedores and categorias de despesa.
type Ref struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}
