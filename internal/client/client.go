// Package client manages the pharmacy's clients and their outstanding
// balances, including the dunning messages sent over WhatsApp.
package client

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payment statuses a client can carry.
const (
	StatusEmDia        = "em_dia"
	StatusAtrasado     = "atrasado"
	StatusInadimplente = "inadimplente"
)

// ValidStatus reports whether s is a known payment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusEmDia, StatusAtrasado, StatusInadimplente:
		return true
	}
	return false
}

// Client is one pharmacy client. Field names follow the store's records.
type Client struct {
	ID              uuid.UUID `json:"id"`
	Nome            string    `json:"nome"`
	Telefone        string    `json:"telefone"`
	Email           string    `json:"email,omitempty"`
	CPF             string    `json:"cpf,omitempty"`
	Endereco        string    `json:"endereco,omitempty"`
	Observacoes     string    `json:"observacoes,omitempty"`
	SaldoDevedor    float64   `json:"saldo_devedor"`
	StatusPagamento string    `json:"status_pagamento"`
	UltimaCompra    string    `json:"ultima_compra,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Normalize trims text fields and defaults the payment status.
func (c *Client) Normalize() {
	c.Nome = strings.TrimSpace(c.Nome)
	c.Telefone = strings.TrimSpace(c.Telefone)
	c.Email = strings.TrimSpace(c.Email)
	c.CPF = strings.TrimSpace(c.CPF)
	c.Endereco = strings.TrimSpace(c.Endereco)
	c.Observacoes = strings.TrimSpace(c.Observacoes)
	c.UltimaCompra = strings.TrimSpace(c.UltimaCompra)
	if c.StatusPagamento == "" {
		c.StatusPagamento = StatusEmDia
	}
}

// Valid reports whether the record carries the minimum identifying data.
// Import rows without both fields are skipped.
func (c *Client) Valid() bool {
	return c.Nome != "" && c.Telefone != ""
}
