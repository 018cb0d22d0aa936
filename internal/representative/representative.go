// Package representative manages the supplier representatives the pharmacy
// requests quotes from. The contact lookup feeds the purchase-message
// composer and the purchase-order PDF.
package representative

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Categories a representative can supply.
var Categories = []string{
	"Medicamentos",
	"Perfumaria",
	"Higiene Pessoal",
	"Cosméticos",
	"Dermocosméticos",
	"Nutrição",
	"Outros",
}

// ValidCategory reports whether c is a known supply category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Representative is one supplier contact. Contato holds the WhatsApp number
// and may be empty; the message composer refuses to run without it.
type Representative struct {
	ID         uuid.UUID `json:"id"`
	Nome       string    `json:"nome"`
	Empresa    string    `json:"empresa,omitempty"`
	Telefone   string    `json:"telefone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Contato    string    `json:"contato,omitempty"`
	Categorias []string  `json:"categorias"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Normalize trims text fields and drops unknown categories.
func (r *Representative) Normalize() {
	r.Nome = strings.TrimSpace(r.Nome)
	r.Empresa = strings.TrimSpace(r.Empresa)
	r.Telefone = strings.TrimSpace(r.Telefone)
	r.Email = strings.TrimSpace(r.Email)
	r.Contato = strings.TrimSpace(r.Contato)
	kept := r.Categorias[:0]
	for _, c := range r.Categorias {
		c = strings.TrimSpace(c)
		if ValidCategory(c) {
			kept = append(kept, c)
		}
	}
	r.Categorias = kept
}
