package payable

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Service applies payable invariants: server-side status defaults, overdue
// flagging on reads, and the mark-paid transition.
type Service struct {
	Store Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Input is the payload accepted by create and update.
type Input struct {
	Descricao      string      `json:"descricao"`
	FornecedorID   *uuid.UUID  `json:"fornecedor_id"`
	CategoriaID    *uuid.UUID  `json:"categoria_id"`
	ValorTotal     json.Number `json:"valor_total"`
	DataEmissao    string      `json:"data_emissao"`
	DataVencimento string      `json:"data_vencimento"`
	FormaPagamento string      `json:"forma_pagamento"`
	Parcelado      bool        `json:"parcelado"`
	NumeroParcelas int         `json:"numero_parcelas"`
	Status         string      `json:"status"`
	Observacoes    string      `json:"observacoes"`
}

// View decorates a payable with its effective status for listings.
type View struct {
	Payable
	EffectiveStatus string `json:"effective_status"`
}

// List returns every payable ordered by due date, each carrying the status
// the screen should show.
func (s *Service) List(ctx context.Context) ([]View, error) {
	payables, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]View, 0, len(payables))
	for _, p := range payables {
		views = append(views, View{Payable: p, EffectiveStatus: p.EffectiveStatus(now)})
	}
	return views, nil
}

// Get fetches one payable.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (View, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return View{Payable: p, EffectiveStatus: p.EffectiveStatus(s.now())}, nil
}

// Create inserts a new payable from form input.
func (s *Service) Create(ctx context.Context, in Input) (Payable, error) {
	p, err := resolve(in)
	if err != nil {
		return Payable{}, err
	}
	p.ID = uuid.New()
	if err := s.Store.Insert(ctx, p); err != nil {
		return Payable{}, err
	}
	return p, nil
}

// Update overwrites a payable with form input, preserving payment fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Payable, error) {
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payable{}, err
	}
	p, err := resolve(in)
	if err != nil {
		return Payable{}, err
	}
	p.ID = id
	p.ValorPago = existing.ValorPago
	p.DataPagamento = existing.DataPagamento
	if err := s.Store.Update(ctx, p); err != nil {
		return Payable{}, err
	}
	return p, nil
}

// Delete removes one payable.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

// MarkPaid settles a payable: status pago, the paid amount (the full total
// when the payload leaves it out) and the payment timestamp.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, valorPago *float64) (Payable, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payable{}, err
	}
	if p.Status == StatusPago {
		return Payable{}, common.ErrConflict("payable is already paid")
	}
	paid := p.ValorTotal
	if valorPago != nil {
		if *valorPago < 0 {
			return Payable{}, common.ErrBadRequest("valor_pago must not be negative")
		}
		paid = *valorPago
	}
	now := s.now()
	p.Status = StatusPago
	p.ValorPago = paid
	p.DataPagamento = &now
	if err := s.Store.Update(ctx, p); err != nil {
		return Payable{}, err
	}
	return p, nil
}

// Fornecedores lists suppliers for the form dropdowns.
func (s *Service) Fornecedores(ctx context.Context) ([]Ref, error) {
	return s.Store.Fornecedores(ctx)
}

// Categorias lists expense categories for the form dropdowns.
func (s *Service) Categorias(ctx context.Context) ([]Ref, error) {
	return s.Store.Categorias(ctx)
}

func resolve(in Input) (Payable, error) {
	p := Payable{
		Descricao:      in.Descricao,
		FornecedorID:   in.FornecedorID,
		CategoriaID:    in.CategoriaID,
		ValorTotal:     common.NumberFloat(in.ValorTotal),
		DataEmissao:    in.DataEmissao,
		DataVencimento: in.DataVencimento,
		FormaPagamento: in.FormaPagamento,
		Parcelado:      in.Parcelado,
		NumeroParcelas: in.NumeroParcelas,
		Status:         in.Status,
		Observacoes:    in.Observacoes,
	}
	p.Normalize()
	if p.Descricao == "" {
		return Payable{}, common.ErrBadRequest("descricao is required")
	}
	if p.ValorTotal <= 0 {
		return Payable{}, common.ErrBadRequest("valor_total must be positive")
	}
	if p.DataVencimento == "" {
		return Payable{}, common.ErrBadRequest("data_vencimento is required")
	}
	if _, err := time.Parse(dueDateLayout, p.DataVencimento); err != nil {
		return Payable{}, common.ErrBadRequest("data_vencimento must be YYYY-MM-DD")
	}
	if !ValidStatus(p.Status) {
		return Payable{}, common.ErrBadRequest("status must be em_aberto, pago or atrasado")
	}
	if p.Parcelado && p.NumeroParcelas < 2 {
		return Payable{}, common.ErrBadRequest("numero_parcelas must be at least 2 for installment payables")
	}
	return p, nil
}
