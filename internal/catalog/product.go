package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product is one pharmacy catalog entry. Field names follow the source
// spreadsheet the pharmacy's ERP exports, so imports map one to one.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Codigo      string    `json:"codigo"`
	Nome        string    `json:"nome"`
	Laboratorio string    `json:"laboratorio,omitempty"`
	Grupo       string    `json:"grupo,omitempty"`
	CurvaABC    string    `json:"curva_abc,omitempty"`
	Estoque     int       `json:"estoque"`
	PrecoCompra float64   `json:"preco_compra"`
	PrecoCusto  float64   `json:"preco_custo"`
	PrecoVenda  float64   `json:"preco_venda"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize trims the identifying fields.
func (p *Product) Normalize() {
	p.Codigo = strings.TrimSpace(p.Codigo)
	p.Nome = strings.TrimSpace(p.Nome)
	p.Laboratorio = strings.TrimSpace(p.Laboratorio)
	p.Grupo = strings.TrimSpace(p.Grupo)
	p.CurvaABC = strings.TrimSpace(p.CurvaABC)
}

// Valid reports whether the entry carries the minimum identifying data.
// Import rows without both fields are skipped.
func (p *Product) Valid() bool {
	return p.Codigo != "" && p.Nome != ""
}
