package quote

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// CategoryUncategorized is the sentinel applied when a quote arrives without a
// category. Older data never carried the column, so the default lives at the
// write boundary instead of at every consumption site.
const CategoryUncategorized = "Sem categoria"

// Units enumerates the units of measure offered by the entry form. The field
// itself stays free-form so spreadsheet rows with unexpected units still load.
var Units = []string{
	"comprimido",
	"cápsula",
	"ml",
	"mg",
	"frasco",
	"tubo",
	"caixa",
	"unidade",
}

// Quote is one representative's offered price for one product at a point in time.
type Quote struct {
	ID             uuid.UUID `json:"id"`
	ProductName    string    `json:"product_name"`
	UnitPrice      float64   `json:"unit_price"`
	Quantity       int       `json:"quantity"`
	TotalPrice     float64   `json:"total_price"`
	Unit           string    `json:"unit"`
	Representative string    `json:"representative"`
	Category       string    `json:"category"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Normalize canonicalises a quote before it is written: names are trimmed,
// the category sentinel is applied, non-finite numerics are zeroed and the
// derived total is recomputed. The stored TotalPrice is never trusted.
func (q *Quote) Normalize() {
	q.ProductName = strings.TrimSpace(q.ProductName)
	q.Representative = strings.TrimSpace(q.Representative)
	q.Unit = strings.TrimSpace(q.Unit)
	q.Category = strings.TrimSpace(q.Category)
	if q.Category == "" {
		q.Category = CategoryUncategorized
	}
	q.UnitPrice = common.SafeFloat(q.UnitPrice)
	q.TotalPrice = q.LineTotal()
}

// LineTotal derives unit price times quantity, guarded against non-finite input.
func (q Quote) LineTotal() float64 {
	return common.SafeFloat(q.UnitPrice) * float64(q.Quantity)
}

// Draft returns a copy suitable for pre-filling a new entry form: every field
// except the identity and the modification timestamp.
func (q Quote) Draft() Quote {
	copy := q
	copy.ID = uuid.Nil
	copy.UpdatedAt = time.Time{}
	copy.TotalPrice = copy.LineTotal()
	return copy
}
