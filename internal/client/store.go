package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Store is the persistence boundary for clients.
type Store interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id uuid.UUID) (Client, error)
	Insert(ctx context.Context, c Client) error
	InsertBatch(ctx context.Context, clients []Client) (int, error)
	Update(ctx context.Context, c Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGStore implements Store over Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const clientColumns = `id, nome, telefone, email, cpf, endereco, observacoes, saldo_devedor, status_pagamento, ultima_compra, created_at, updated_at`

// List returns every client ordered by name.
func (s *PGStore) List(ctx context.Context) ([]Client, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+clientColumns+` FROM clientes ORDER BY nome, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Get fetches a single client by id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Client, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clientes WHERE id = $1`, id)
	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, common.ErrNotFound("client not found")
	}
	return c, err
}

// Insert stores a new client.
func (s *PGStore) Insert(ctx context.Context, c Client) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO clientes (id, nome, telefone, email, cpf, endereco, observacoes, saldo_devedor, status_pagamento, ultima_compra, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
		c.ID, c.Nome, c.Telefone, c.Email, c.CPF, c.Endereco, c.Observacoes, c.SaldoDevedor, c.StatusPagamento, c.UltimaCompra,
	)
	return err
}

// InsertBatch stores imported clients and returns how many rows landed.
func (s *PGStore) InsertBatch(ctx context.Context, clients []Client) (int, error) {
	if len(clients) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, c := range clients {
		batch.Queue(`
			INSERT INTO clientes (id, nome, telefone, email, cpf, endereco, observacoes, saldo_devedor, status_pagamento, ultima_compra, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
			c.ID, c.Nome, c.Telefone, c.Email, c.CPF, c.Endereco, c.Observacoes, c.SaldoDevedor, c.StatusPagamento, c.UltimaCompra,
		)
	}
	results := s.Pool.SendBatch(ctx, batch)
	defer results.Close()
	inserted := 0
	for range clients {
		if _, err := results.Exec(); err != nil {
			return inserted, fmt.Errorf("insert imported client: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// Update overwrites a client.
func (s *PGStore) Update(ctx context.Context, c Client) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE clientes
		SET nome = $2, telefone = $3, email = $4, cpf = $5, endereco = $6, observacoes = $7,
		    saldo_devedor = $8, status_pagamento = $9, ultima_compra = $10, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Nome, c.Telefone, c.Email, c.CPF, c.Endereco, c.Observacoes, c.SaldoDevedor, c.StatusPagamento, c.UltimaCompra,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("client not found")
	}
	return nil
}

// Delete removes one client.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("client not found")
	}
	return nil
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Nome, &c.Telefone, &c.Email, &c.CPF, &c.Endereco, &c.Observacoes,
		&c.SaldoDevedor, &c.StatusPagamento, &c.UltimaCompra, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
