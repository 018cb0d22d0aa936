package representative

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Service applies representative invariants and exposes the contact lookup
// the quote module depends on.
type Service struct {
	Store Store
}

// Input is the payload accepted by create and update.
type Input struct {
	Nome       string   `json:"nome"`
	Empresa    string   `json:"empresa"`
	Telefone   string   `json:"telefone"`
	Email      string   `json:"email"`
	Contato    string   `json:"contato"`
	Categorias []string `json:"categorias"`
}

// List returns representatives ordered by name.
func (s *Service) List(ctx context.Context, query string) ([]Representative, error) {
	return s.Store.List(ctx, strings.TrimSpace(query))
}

// Get fetches one representative.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Representative, error) {
	return s.Store.Get(ctx, id)
}

// Create inserts a new representative from form input.
func (s *Service) Create(ctx context.Context, in Input) (Representative, error) {
	rep, err := resolve(in)
	if err != nil {
		return Representative{}, err
	}
	rep.ID = uuid.New()
	if err := s.Store.Insert(ctx, rep); err != nil {
		return Representative{}, err
	}
	return rep, nil
}

// Update overwrites a representative with form input.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Representative, error) {
	rep, err := resolve(in)
	if err != nil {
		return Representative{}, err
	}
	rep.ID = id
	if err := s.Store.Update(ctx, rep); err != nil {
		return Representative{}, err
	}
	return rep, nil
}

// Delete removes one representative.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

// Contact resolves a representative's display name and WhatsApp number.
// Satisfies the quote module's contact directory.
func (s *Service) Contact(ctx context.Context, id uuid.UUID) (string, string, error) {
	rep, err := s.Store.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	return rep.Nome, rep.Contato, nil
}

func resolve(in Input) (Representative, error) {
	rep := Representative{
		Nome:       in.Nome,
		Empresa:    in.Empresa,
		Telefone:   in.Telefone,
		Email:      in.Email,
		Contato:    in.Contato,
		Categorias: in.Categorias,
	}
	rep.Normalize()
	if rep.Nome == "" {
		return Representative{}, common.ErrBadRequest("nome is required")
	}
	if rep.Categorias == nil {
		rep.Categorias = []string{}
	}
	return rep, nil
}
