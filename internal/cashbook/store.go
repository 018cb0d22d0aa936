package cashbook

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence boundary for closings.
type Store interface {
	Insert(ctx context.Context, c Closing) error
	History(ctx context.Context, page, perPage int) ([]Closing, int64, error)
	LatestSince(ctx context.Context, since time.Time) (Closing, bool, error)
	LatestBetween(ctx context.Context, from, to time.Time) (Closing, bool, error)
}

// PGStore implements Store over Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const closingColumns = `id, valor_inicial, dinheiro, pix, cartao_credito, cartao_debito, total, diferenca, responsavel, observacoes, data_fechamento`

// Insert stores a closing.
func (s *PGStore) Insert(ctx context.Context, c Closing) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO fechamentos_caixa (id, valor_inicial, dinheiro, pix, cartao_credito, cartao_debito, total, diferenca, responsavel, observacoes, data_fechamento)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.ValorInicial, c.Dinheiro, c.Pix, c.CartaoCredito, c.CartaoDebito, c.Total, c.Diferenca, c.Responsavel, c.Observacoes, c.DataFechamento,
	)
	return err
}

// History returns one page of closings, newest first.
func (s *PGStore) History(ctx context.Context, page, perPage int) ([]Closing, int64, error) {
	var total int64
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM fechamentos_caixa`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT `+closingColumns+` FROM fechamentos_caixa ORDER BY data_fechamento DESC LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	closings := make([]Closing, 0, perPage)
	for rows.Next() {
		c, err := scanClosing(rows)
		if err != nil {
			return nil, 0, err
		}
		closings = append(closings, c)
	}
	return closings, total, rows.Err()
}

// LatestSince returns the most recent closing at or after the given instant.
func (s *PGStore) LatestSince(ctx context.Context, since time.Time) (Closing, bool, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+closingColumns+` FROM fechamentos_caixa WHERE data_fechamento >= $1 ORDER BY data_fechamento DESC LIMIT 1`,
		since)
	return one(row)
}

// LatestBetween returns the most recent closing inside [from, to).
func (s *PGStore) LatestBetween(ctx context.Context, from, to time.Time) (Closing, bool, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+closingColumns+` FROM fechamentos_caixa WHERE data_fechamento >= $1 AND data_fechamento < $2 ORDER BY data_fechamento DESC LIMIT 1`,
		from, to)
	return one(row)
}

func one(row pgx.Row) (Closing, bool, error) {
	c, err := scanClosing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Closing{}, false, nil
	}
	if err != nil {
		return Closing{}, false, err
	}
	return c, true, nil
}

func scanClosing(row pgx.Row) (Closing, error) {
	var c Closing
	err := row.Scan(&c.ID, &c.ValorInicial, &c.Dinheiro, &c.Pix, &c.CartaoCredito, &c.CartaoDebito,
		&c.Total, &c.Diferenca, &c.Responsavel, &c.Observacoes, &c.DataFechamento)
	return c, err
}
