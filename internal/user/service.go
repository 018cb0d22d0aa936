package user

import (
	"context"
	"net/mail"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Service applies user invariants and credential hashing.
type Service struct {
	Store Store
}

// Input is the payload accepted by create and update. Password is required
// on create; empty on update means keep the current hash.
type Input struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Ativo    *bool  `json:"ativo"`
}

// List returns every user, hashes already stripped by the JSON mapping.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.Store.List(ctx)
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.Store.Get(ctx, id)
}

// Create inserts a new user with the password hashed at rest.
func (s *Service) Create(ctx context.Context, in Input) (User, error) {
	u, err := resolve(in)
	if err != nil {
		return User{}, err
	}
	if in.Password == "" {
		return User{}, common.ErrBadRequest("password is required")
	}
	if err := s.checkEmail(ctx, u.Email, uuid.Nil); err != nil {
		return User{}, err
	}
	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return User{}, err
	}
	u.ID = uuid.New()
	u.PasswordHash = hash
	if err := s.Store.Insert(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Update overwrites a user. An empty password keeps the stored hash.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (User, error) {
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	u, err := resolve(in)
	if err != nil {
		return User{}, err
	}
	if err := s.checkEmail(ctx, u.Email, id); err != nil {
		return User{}, err
	}
	u.ID = id
	u.PasswordHash = existing.PasswordHash
	if in.Password != "" {
		hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = hash
	}
	if err := s.Store.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete removes one user.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) checkEmail(ctx context.Context, email string, excluding uuid.UUID) error {
	taken, err := s.Store.EmailTaken(ctx, email, excluding)
	if err != nil {
		return err
	}
	if taken {
		return common.ErrConflict("email is already in use")
	}
	return nil
}

func resolve(in Input) (User, error) {
	u := User{
		Nome:  in.Nome,
		Email: in.Email,
		Ativo: true,
	}
	if in.Ativo != nil {
		u.Ativo = *in.Ativo
	}
	u.Normalize()
	if u.Nome == "" {
		return User{}, common.ErrBadRequest("nome is required")
	}
	if u.Email == "" {
		return User{}, common.ErrBadRequest("email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || strings.ContainsAny(u.Email, " ") {
		return User{}, common.ErrBadRequest("email is not valid")
	}
	return u, nil
}
