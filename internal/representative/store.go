package representative

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Store is the persistence boundary for representatives.
type Store interface {
	List(ctx context.Context, query string) ([]Representative, error)
	Get(ctx context.Context, id uuid.UUID) (Representative, error)
	Insert(ctx context.Context, rep Representative) error
	Update(ctx context.Context, rep Representative) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGStore implements Store over Postgres. Categorias lives in a text[]
// column; pgx maps it to []string directly.
type PGStore struct {
	Pool *pgxpool.Pool
}

const repColumns = `id, nome, empresa, telefone, email, contato, categorias, created_at, updated_at`

// List returns representatives ordered by name, optionally narrowed by a
// case-insensitive search over name and company.
func (s *PGStore) List(ctx context.Context, query string) ([]Representative, error) {
	sql := `SELECT ` + repColumns + ` FROM representantes`
	args := []any{}
	if query != "" {
		sql += ` WHERE nome ILIKE $1 OR empresa ILIKE $1`
		args = append(args, "%"+query+"%")
	}
	sql += ` ORDER BY nome, id`

	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []Representative
	for rows.Next() {
		rep, err := scanRepresentative(rows)
		if err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

// Get fetches a single representative by id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Representative, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+repColumns+` FROM representantes WHERE id = $1`, id)
	rep, err := scanRepresentative(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Representative{}, common.ErrNotFound("representative not found")
	}
	return rep, err
}

// Insert stores a new representative.
func (s *PGStore) Insert(ctx context.Context, rep Representative) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO representantes (id, nome, empresa, telefone, email, contato, categorias, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		rep.ID, rep.Nome, rep.Empresa, rep.Telefone, rep.Email, rep.Contato, rep.Categorias,
	)
	return err
}

// Update overwrites a representative.
func (s *PGStore) Update(ctx context.Context, rep Representative) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE representantes
		SET nome = $2, empresa = $3, telefone = $4, email = $5, contato = $6, categorias = $7, updated_at = now()
		WHERE id = $1`,
		rep.ID, rep.Nome, rep.Empresa, rep.Telefone, rep.Email, rep.Contato, rep.Categorias,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("representative not found")
	}
	return nil
}

// Delete removes one representative.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM representantes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("representative not found")
	}
	return nil
}

func scanRepresentative(row pgx.Row) (Representative, error) {
	var rep Representative
	err := row.Scan(&rep.ID, &rep.Nome, &rep.Empresa, &rep.Telefone, &rep.Email, &rep.Contato,
		&rep.Categorias, &rep.CreatedAt, &rep.UpdatedAt)
	return rep, err
}
