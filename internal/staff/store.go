package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Store is the persistence boundary for collaborators.
type Store interface {
	List(ctx context.Context) ([]Collaborator, error)
	Get(ctx context.Context, id uuid.UUID) (Collaborator, error)
	Insert(ctx context.Context, c Collaborator) error
	Update(ctx context.Context, c Collaborator) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGStore implements Store over Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const staffColumns = `id, nome, email, telefone, cargo, data_admissao, ativo, created_at, updated_at`

// List returns every collaborator ordered by name.
func (s *PGStore) List(ctx context.Context) ([]Collaborator, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+staffColumns+` FROM colaboradores ORDER BY nome, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []Collaborator
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, c)
	}
	return staff, rows.Err()
}

// Get fetches a single collaborator by id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Collaborator, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM colaboradores WHERE id = $1`, id)
	c, err := scanCollaborator(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Collaborator{}, common.ErrNotFound("collaborator not found")
	}
	return c, err
}

// Insert stores a new collaborator.
func (s *PGStore) Insert(ctx context.Context, c Collaborator) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO colaboradores (id, nome, email, telefone, cargo, data_admissao, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		c.ID, c.Nome, c.Email, c.Telefone, c.Cargo, c.DataAdmissao, c.Ativo,
	)
	return err
}

// Update overwrites a collaborator.
func (s *PGStore) Update(ctx context.Context, c Collaborator) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE colaboradores
		SET nome = $2, email = $3, telefone = $4, cargo = $5, data_admissao = $6, ativo = $7, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Nome, c.Email, c.Telefone, c.Cargo, c.DataAdmissao, c.Ativo,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("collaborator not found")
	}
	return nil
}

// Delete removes one collaborator.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM colaboradores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("collaborator not found")
	}
	return nil
}

func scanCollaborator(row pgx.Row) (Collaborator, error) {
	var c Collaborator
	err := row.Scan(&c.ID, &c.Nome, &c.Email, &c.Telefone, &c.Cargo, &c.DataAdmissao, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
