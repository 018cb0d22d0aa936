package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Store is the persistence boundary for catalog entries.
type Store interface {
	List(ctx context.Context, p ListParams) ([]Product, int64, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	Insert(ctx context.Context, p Product) error
	InsertBatch(ctx context.Context, products []Product) (int, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGStore implements Store over Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const productColumns = `id, codigo, nome, laboratorio, grupo, curva_abc, estoque, preco_compra, preco_custo, preco_venda, created_at, updated_at`

// List returns one catalog page, newest entries first, optionally narrowed by
// a case-insensitive name search.
func (s *PGStore) List(ctx context.Context, p ListParams) ([]Product, int64, error) {
	where := ""
	args := []any{}
	if p.Query != "" {
		where = ` WHERE nome ILIKE $1`
		args = append(args, "%"+p.Query+"%")
	}

	var total int64
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM produtos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	offset := (p.Page - 1) * p.Limit
	query := fmt.Sprintf(`SELECT %s FROM produtos%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)+1, len(args)+2)
	rows, err := s.Pool.Query(ctx, query, append(args, p.Limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0, p.Limit)
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, prod)
	}
	return products, total, rows.Err()
}

// Get fetches a single catalog entry by id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM produtos WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, common.ErrNotFound("product not found")
	}
	return p, err
}

// Insert stores a new catalog entry.
func (s *PGStore) Insert(ctx context.Context, p Product) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO produtos (id, codigo, nome, laboratorio, grupo, curva_abc, estoque, preco_compra, preco_custo, preco_venda, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
		p.ID, p.Codigo, p.Nome, p.Laboratorio, p.Grupo, p.CurvaABC, p.Estoque, p.PrecoCompra, p.PrecoCusto, p.PrecoVenda,
	)
	return err
}

// InsertBatch stores imported entries in one round trip per batch and returns
// how many rows landed.
func (s *PGStore) InsertBatch(ctx context.Context, products []Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO produtos (id, codigo, nome, laboratorio, grupo, curva_abc, estoque, preco_compra, preco_custo, preco_venda, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
			p.ID, p.Codigo, p.Nome, p.Laboratorio, p.Grupo, p.CurvaABC, p.Estoque, p.PrecoCompra, p.PrecoCusto, p.PrecoVenda,
		)
	}
	results := s.Pool.SendBatch(ctx, batch)
	defer results.Close()
	inserted := 0
	for range products {
		if _, err := results.Exec(); err != nil {
			return inserted, fmt.Errorf("insert imported product: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// Update overwrites a catalog entry.
func (s *PGStore) Update(ctx context.Context, p Product) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE produtos
		SET codigo = $2, nome = $3, laboratorio = $4, grupo = $5, curva_abc = $6,
		    estoque = $7, preco_compra = $8, preco_custo = $9, preco_venda = $10, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Codigo, p.Nome, p.Laboratorio, p.Grupo, p.CurvaABC, p.Estoque, p.PrecoCompra, p.PrecoCusto, p.PrecoVenda,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("product not found")
	}
	return nil
}

// Delete removes one catalog entry.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("product not found")
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Codigo, &p.Nome, &p.Laboratorio, &p.Grupo, &p.CurvaABC,
		&p.Estoque, &p.PrecoCompra, &p.PrecoCusto, &p.PrecoVenda, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// normalizeQuery strips wildcards users paste from the ERP search box.
func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	return strings.NewReplacer("%", "", "_", "").Replace(q)
}
