package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/obs"
)

// Service applies client invariants and drives imports and dunning messages.
type Service struct {
	Store Store
}

// Input is the payload accepted by create and update.
type Input struct {
	Nome            string      `json:"nome"`
	Telefone        string      `json:"telefone"`
	Email           string      `json:"email"`
	CPF             string      `json:"cpf"`
	Endereco        string      `json:"endereco"`
	Observacoes     string      `json:"observacoes"`
	SaldoDevedor    json.Number `json:"saldo_devedor"`
	StatusPagamento string      `json:"status_pagamento"`
	UltimaCompra    string      `json:"ultima_compra"`
}

// List returns every client ordered by name.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.Store.List(ctx)
}

// Get fetches one client.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Client, error) {
	return s.Store.Get(ctx, id)
}

// Create inserts a new client from form input.
func (s *Service) Create(ctx context.Context, in Input) (Client, error) {
	c, err := resolve(in)
	if err != nil {
		return Client{}, err
	}
	c.ID = uuid.New()
	if err := s.Store.Insert(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Update overwrites a client with form input.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Client, error) {
	c, err := resolve(in)
	if err != nil {
		return Client{}, err
	}
	c.ID = id
	if err := s.Store.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Delete removes one client.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

// DunningMessage composes the balance reminder for one client.
func (s *Service) DunningMessage(ctx context.Context, id uuid.UUID) (Message, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return Message{}, err
	}
	return ComposeDunningMessage(c)
}

// Import parses a client spreadsheet upload and lands the valid rows.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	clients, skipped, err := ParseSpreadsheet(r)
	if err != nil {
		return ImportSummary{}, err
	}
	countImport("skipped", skipped)
	if len(clients) == 0 {
		return ImportSummary{}, common.ErrUnprocessable("EMPTY_IMPORT", "no valid clients in the spreadsheet")
	}
	for i := range clients {
		clients[i].ID = uuid.New()
	}
	inserted, err := s.Store.InsertBatch(ctx, clients)
	countImport("imported", inserted)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("import clients: %w", err)
	}
	return ImportSummary{Imported: inserted, Skipped: skipped}, nil
}

func resolve(in Input) (Client, error) {
	c := Client{
		Nome:            in.Nome,
		Telefone:        in.Telefone,
		Email:           in.Email,
		CPF:             in.CPF,
		Endereco:        in.Endereco,
		Observacoes:     in.Observacoes,
		SaldoDevedor:    common.NumberFloat(in.SaldoDevedor),
		StatusPagamento: in.StatusPagamento,
		UltimaCompra:    in.UltimaCompra,
	}
	c.Normalize()
	if !c.Valid() {
		return Client{}, common.ErrBadRequest("nome and telefone are required")
	}
	if !ValidStatus(c.StatusPagamento) {
		return Client{}, common.ErrBadRequest("status_pagamento must be em_dia, atrasado or inadimplente")
	}
	if c.SaldoDevedor < 0 {
		return Client{}, common.ErrBadRequest("saldo_devedor must not be negative")
	}
	return c, nil
}

func countImport(result string, n int) {
	if n > 0 && obs.ImportRowsTotal != nil {
		obs.ImportRowsTotal.WithLabelValues("client", result).Add(float64(n))
	}
}
