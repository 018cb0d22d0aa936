package quote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Store is the persistence boundary for quotes. The engine itself never
// touches storage; it always works on the full in-memory working set.
type Store interface {
	List(ctx context.Context) ([]Quote, error)
	Get(ctx context.Context, id uuid.UUID) (Quote, error)
	Insert(ctx context.Context, q Quote) error
	Update(ctx context.Context, q Quote) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// PGStore implements Store over Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const quoteColumns = `id, product_name, unit_price, quantity, total_price, unit, representative, category, updated_at`

// List returns the full working set in insertion order.
func (s *PGStore) List(ctx context.Context) ([]Quote, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+quoteColumns+` FROM cotacoes ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// Get fetches a single quote by id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Quote, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+quoteColumns+` FROM cotacoes WHERE id = $1`, id)
	q, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, common.ErrNotFound("quote not found")
	}
	return q, err
}

// Insert stores a new quote.
func (s *PGStore) Insert(ctx context.Context, q Quote) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO cotacoes (id, product_name, unit_price, quantity, total_price, unit, representative, category, updated_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
		q.ID, q.ProductName, q.UnitPrice, q.Quantity, q.TotalPrice, q.Unit, q.Representative, q.Category, q.UpdatedAt,
	)
	return err
}

// Update overwrites a quote. Last write wins; there is no version check.
func (s *PGStore) Update(ctx context.Context, q Quote) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE cotacoes
		SET product_name = $2, unit_price = $3, quantity = $4, total_price = $5,
		    unit = $6, representative = $7, category = $8, updated_at = $9
		WHERE id = $1`,
		q.ID, q.ProductName, q.UnitPrice, q.Quantity, q.TotalPrice, q.Unit, q.Representative, q.Category, q.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("quote not found")
	}
	return nil
}

// Delete removes one quote.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM cotacoes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("quote not found")
	}
	return nil
}

// DeleteAll clears the working set and reports how many quotes were removed.
func (s *PGStore) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM cotacoes`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	var updatedAt time.Time
	if err := row.Scan(&q.ID, &q.ProductName, &q.UnitPrice, &q.Quantity, &q.TotalPrice, &q.Unit, &q.Representative, &q.Category, &updatedAt); err != nil {
		return Quote{}, err
	}
	q.UpdatedAt = updatedAt
	return q, nil
}
