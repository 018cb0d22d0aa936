// Package staff manages the pharmacy's collaborators.
package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Collaborator is one pharmacy employee record.
type Collaborator struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email,omitempty"`
	Telefone     string    `json:"telefone,omitempty"`
	Cargo        string    `json:"cargo,omitempty"`
	DataAdmissao string    `json:"data_admissao,omitempty"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize trims text fields.
func (c *Collaborator) Normalize() {
	c.Nome = strings.TrimSpace(c.Nome)
	c.Email = strings.TrimSpace(c.Email)
	c.Telefone = strings.TrimSpace(c.Telefone)
	c.Cargo = strings.TrimSpace(c.Cargo)
	c.DataAdmissao = strings.TrimSpace(c.DataAdmissao)
}
