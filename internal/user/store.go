package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Store is the persistence boundary for users.
type Store interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error)
	Insert(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGStore implements Store over Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const userColumns = `id, nome, email, password_hash, ativo, created_at, updated_at`

// List returns every user ordered by name.
func (s *PGStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+userColumns+` FROM usuarios ORDER BY nome, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get fetches a single user by id.
func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, common.ErrNotFound("user not found")
	}
	return u, err
}

// EmailTaken reports whether another user already holds the email.
func (s *PGStore) EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error) {
	var taken bool
	err := s.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM usuarios WHERE email = $1 AND id <> $2)`,
		email, excluding).Scan(&taken)
	return taken, err
}

// Insert stores a new user.
func (s *PGStore) Insert(ctx context.Context, u User) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO usuarios (id, nome, email, password_hash, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`,
		u.ID, u.Nome, u.Email, u.PasswordHash, u.Ativo,
	)
	return err
}

// Update overwrites a user.
func (s *PGStore) Update(ctx context.Context, u User) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE usuarios
		SET nome = $2, email = $3, password_hash = $4, ativo = $5, updated_at = now()
		WHERE id = $1`,
		u.ID, u.Nome, u.Email, u.PasswordHash, u.Ativo,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("user not found")
	}
	return nil
}

// Delete removes one user.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound("user not found")
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.PasswordHash, &u.Ativo, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
