package payable

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Store is the persistence boundary for payables and their lookup tables.
type Store interface {
	List(ctx context.Context) ([]Payable, error)
	Get(ctx context.Context, id uuid.UUID) (Payable, error)
	Insert(ctx context.Context, p Payable) error
	Update(ctx context.Context, p Payable) error
	Delete(ctx context.Context, id uuid.UUID) error
	Fornecedores(ctx context.Context) ([]Ref, error)
	Categorias(ctx context.Context) ([]Ref, error)
}

// PGStore implements Store over Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const payableSelect = `
	SELECT cp.id, cp.descricao, cp.fornecedor_id, coalesce(f.nome, ''), cp.categoria_id, coalesce(cd.nome, ''),
	       cp.valor_total, cp.data_emissao, cp.data_vencimento, cp.forma_pagamento, cp.parcelado, cp.numero_parcelas,
	       cp.status, cp.valor_pago, cp.data_pagamento, cp.observacoes, cp.created_at, cp.updated_at
	FROM contas_pagar cp
	LEFT JOIN fornecedores f ON f.id = cp.fornecedor_id
	LEFT JOIN categorias_despesa cd ON cd.id = cp.categoria_id`

// List returns every payable ordered by due date, soonest first.
func (s *PGStore) List(ctx context.Context) ([]Payable, error) {
	rows, err := s.Pool.Query(ctx, payableSelect+` ORDER BY cp.data_vencimento, cp.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payables []Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		payables = append(payables, p)
	}
	return payables, rows.Err()
}

// Get fetches a single payable by id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Payable, error) {
	row := s.Pool.QueryRow(ctx, payableSelect+` WHERE cp.id = $1`, id)
	p, err := scanPayable(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payable{}, common.ErrNotFound("payable not found")
	}
	return p, err
}

// Insert stores a new payable.
func (s *PGStore) Insert(ctx context.Context, p Payable) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO contas_pagar (id, descricao, fornecedor_id, categoria_id, valor_total, data_emissao, data_vencimento,
		                          forma_pagamento, parcelado, numero_parcelas, status, valor_pago, data_pagamento, observacoes,
		                          created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())`,
		p.ID, p.Descricao, p.FornecedorID, p.CategoriaID, p.ValorTotal, p.DataEmissao, p.DataVencimento,
		p.FormaPagamento, p.Parcelado, p.NumeroParcelas, p.Status, p.ValorPago, p.DataPagamento, p.Observacoes,
	)
	return err
}

// Update overwrites a payable.
func (s *PGStore) Update(ctx context.Context, p Payable) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE contas_pagar
		SET descricao = $2, fornecedor_id = $3, categoria_id = $4, valor_total = $5, data_emissao = $6,
		    data_vencimento = $7, forma_pagamento = $8, parcelado = $9, numero_parcelas = $10,
		    status = $11, valor_pago = $12, data_pagamento = $13, observacoes = $14, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Descricao, p.FornecedorID, p.CategoriaID, p.ValorTotal, p.DataEmissao, p.DataVencimento,
		p.FormaPagamento, p.Parcelado, p.NumeroParcelas, p.Status, p.ValorPago, p.DataPagamento, p.Observacoes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("payable not found")
	}
	return nil
}

// Delete removes one payable.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM contas_pagar WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("payable not found")
	}
	return nil
}

// Fornecedores lists suppliers ordered by name.
func (s *PGStore) Fornecedores(ctx context.Context) ([]Ref, error) {
	return s.refs(ctx, `SELECT id, nome FROM fornecedores ORDER BY nome`)
}

// Categorias lists expense categories ordered by name.
func (s *PGStore) Categorias(ctx context.Context) ([]Ref, error) {
	return s.refs(ctx, `SELECT id, nome FROM categorias_despesa ORDER BY nome`)
}

func (s *PGStore) refs(ctx context.Context, sql string) ([]Ref, error) {
	rows, err := s.Pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []Ref
	for rows.Next() {
		var ref Ref
		if err := rows.Scan(&ref.ID, &ref.Nome); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func scanPayable(row pgx.Row) (Payable, error) {
	var p Payable
	err := row.Scan(&p.ID, &p.Descricao, &p.FornecedorID, &p.Fornecedor, &p.CategoriaID, &p.Categoria,
		&p.ValorTotal, &p.DataEmissao, &p.DataVencimento, &p.FormaPagamento, &p.Parcelado, &p.NumeroParcelas,
		&p.Status, &p.ValorPago, &p.DataPagamento, &p.Observacoes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
