package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Service applies collaborator invariants.
type Service struct {
	Store Store
}

// Input is the payload accepted by create and update.
type Input struct {
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	Telefone     string `json:"telefone"`
	Cargo        string `json:"cargo"`
	DataAdmissao string `json:"data_admissao"`
	Ativo        *bool  `json:"ativo"`
}

// List returns every collaborator ordered by name.
func (s *Service) List(ctx context.Context) ([]Collaborator, error) {
	return s.Store.List(ctx)
}

// Get fetches one collaborator.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Collaborator, error) {
	return s.Store.Get(ctx, id)
}

// Create inserts a new collaborator. New records default to active.
func (s *Service) Create(ctx context.Context, in Input) (Collaborator, error) {
	c, err := resolve(in)
	if err != nil {
		return Collaborator{}, err
	}
	c.ID = uuid.New()
	if err := s.Store.Insert(ctx, c); err != nil {
		return Collaborator{}, err
	}
	return c, nil
}

// Update overwrites a collaborator.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Collaborator, error) {
	c, err := resolve(in)
	if err != nil {
		return Collaborator{}, err
	}
	c.ID = id
	if err := s.Store.Update(ctx, c); err != nil {
		return Collaborator{}, err
	}
	return c, nil
}

// Delete removes one collaborator.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

func resolve(in Input) (Collaborator, error) {
	c := Collaborator{
		Nome:         in.Nome,
		Email:        in.Email,
		Telefone:     in.Telefone,
		Cargo:        in.Cargo,
		DataAdmissao: in.DataAdmissao,
		Ativo:        true,
	}
	if in.Ativo != nil {
		c.Ativo = *in.Ativo
	}
	c.Normalize()
	if c.Nome == "" {
		return Collaborator{}, common.ErrBadRequest("nome is required")
	}
	return c, nil
}
