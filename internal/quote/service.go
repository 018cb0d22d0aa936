package quote

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Input is the payload accepted by create and update. Numeric fields come in
// as json.Number so malformed form input degrades to zero instead of failing
// the decode or smuggling NaN into the collection.
type Input struct {
	ProductName    string      `json:"product_name" validate:"required"`
	UnitPrice      json.Number `json:"unit_price"`
	Quantity       json.Number `json:"quantity"`
	Unit           string      `json:"unit"`
	Representative string      `json:"representative" validate:"required"`
	Category       string      `json:"category"`
}

// Service applies written-side invariants (normalisation, derived total) and
// assembles the derived views the renderer consumes. Every view is recomputed
// from the current collection on every call; nothing derived is cached.
type Service struct {
	Store    Store
	Validate *validator.Validate
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create inserts a new quote from form input.
func (s *Service) Create(ctx context.Context, in Input) (Quote, error) {
	q, err := s.resolve(in)
	if err != nil {
		return Quote{}, err
	}
	q.ID = uuid.New()
	q.UpdatedAt = s.now()
	if err := s.Store.Insert(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

// Update applies an inline edit. Only fields present in the payload change;
// the derived total is recomputed regardless. Last write wins.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch map[string]json.RawMessage) (Quote, error) {
	q, err := s.Store.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	if err := applyPatch(&q, patch); err != nil {
		return Quote{}, err
	}
	q.Normalize()
	if q.ProductName == "" || q.Representative == "" {
		return Quote{}, common.ErrBadRequest("product_name and representative are required")
	}
	if q.Quantity < 1 {
		return Quote{}, common.ErrBadRequest("quantity must be a positive integer")
	}
	q.UpdatedAt = s.now()
	if err := s.Store.Update(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

// Delete removes a quote by id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

// Clear removes every quote in the working set.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	return s.Store.DeleteAll(ctx)
}

// Duplicate returns a pre-filled draft copied from an existing quote.
func (s *Service) Duplicate(ctx context.Context, id uuid.UUID) (Quote, error) {
	q, err := s.Store.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	return q.Draft(), nil
}

// QuoteView decorates a quote with the annotations the table renders.
type QuoteView struct {
	Quote
	IsWinner     bool     `json:"is_winner"`
	DeltaPercent *float64 `json:"delta_percent"`
}

// GroupView is a product group with annotated members.
type GroupView struct {
	ProductName string      `json:"product_name"`
	Minimum     float64     `json:"minimum"`
	Quotes      []QuoteView `json:"quotes"`
}

// ComparisonView bundles the grouped view and the per-representative winners.
type ComparisonView struct {
	Groups  []GroupView             `json:"groups"`
	Winners []RepresentativeWinners `json:"winners"`
}

// ListView returns the globally ordered flat view with per-quote annotations.
func (s *Service) ListView(ctx context.Context) ([]QuoteView, error) {
	quotes, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	mins := MinimumsByProduct(quotes)
	ordered := SortForDisplay(quotes)
	views := make([]QuoteView, 0, len(ordered))
	for _, q := range ordered {
		q.TotalPrice = q.LineTotal()
		views = append(views, QuoteView{
			Quote:        q,
			IsWinner:     IsWinner(q, mins[q.ProductName]),
			DeltaPercent: Delta(q.UnitPrice, mins[q.ProductName]),
		})
	}
	return views, nil
}

// Comparison returns groups with minimum annotations and the winners view.
func (s *Service) Comparison(ctx context.Context) (ComparisonView, error) {
	quotes, err := s.Store.List(ctx)
	if err != nil {
		return ComparisonView{}, err
	}
	groups := GroupByProduct(quotes)
	view := ComparisonView{
		Groups:  make([]GroupView, 0, len(groups)),
		Winners: WinnersByRepresentative(quotes),
	}
	for _, g := range groups {
		gv := GroupView{ProductName: g.ProductName, Minimum: g.Minimum}
		for _, q := range g.Quotes {
			q.TotalPrice = q.LineTotal()
			gv.Quotes = append(gv.Quotes, QuoteView{
				Quote:        q,
				IsWinner:     IsWinner(q, g.Minimum),
				DeltaPercent: Delta(q.UnitPrice, g.Minimum),
			})
		}
		view.Groups = append(view.Groups, gv)
	}
	return view, nil
}

// Summary recomputes the header statistics from the current collection.
func (s *Service) Summary(ctx context.Context) (Stats, error) {
	quotes, err := s.Store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(quotes), nil
}

// PurchaseMessage composes the outbound purchase request for one
// representative. The selection narrows the representative's winners to the
// given ids; an empty selection means every winner.
func (s *Service) PurchaseMessage(ctx context.Context, repName, contact string, selected []uuid.UUID) (Message, error) {
	quotes, err := s.Store.List(ctx)
	if err != nil {
		return Message{}, err
	}
	var winners []Quote
	for _, w := range WinnersByRepresentative(quotes) {
		if w.Representative == repName {
			winners = w.Quotes
			break
		}
	}
	if len(selected) > 0 {
		wanted := make(map[uuid.UUID]struct{}, len(selected))
		for _, id := range selected {
			wanted[id] = struct{}{}
		}
		filtered := winners[:0:0]
		for _, q := range winners {
			if _, ok := wanted[q.ID]; ok {
				filtered = append(filtered, q)
			}
		}
		winners = filtered
	}
	return ComposePurchaseMessage(repName, contact, winners, s.now())
}

// Winners exposes one representative's winning quotes for the PDF renderer.
func (s *Service) Winners(ctx context.Context, repName string) (RepresentativeWinners, error) {
	quotes, err := s.Store.List(ctx)
	if err != nil {
		return RepresentativeWinners{}, err
	}
	for _, w := range WinnersByRepresentative(quotes) {
		if w.Representative == repName {
			return w, nil
		}
	}
	return RepresentativeWinners{Representative: repName}, nil
}

func (s *Service) resolve(in Input) (Quote, error) {
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return Quote{}, common.ErrBadRequest("product_name and representative are required")
		}
	}
	q := Quote{
		ProductName:    in.ProductName,
		UnitPrice:      common.NumberFloat(in.UnitPrice),
		Quantity:       common.NumberInt(in.Quantity),
		Unit:           in.Unit,
		Representative: in.Representative,
		Category:       in.Category,
	}
	q.Normalize()
	if q.ProductName == "" || q.Representative == "" {
		return Quote{}, common.ErrBadRequest("product_name and representative are required")
	}
	if q.UnitPrice < 0 {
		return Quote{}, common.ErrBadRequest("unit_price must not be negative")
	}
	if q.Quantity < 1 {
		return Quote{}, common.ErrBadRequest("quantity must be a positive integer")
	}
	return q, nil
}

func applyPatch(q *Quote, patch map[string]json.RawMessage) error {
	for field, raw := range patch {
		switch field {
		case "product_name":
			if err := json.Unmarshal(raw, &q.ProductName); err != nil {
				return common.ErrBadRequest("product_name must be a string")
			}
		case "representative":
			if err := json.Unmarshal(raw, &q.Representative); err != nil {
				return common.ErrBadRequest("representative must be a string")
			}
		case "unit":
			if err := json.Unmarshal(raw, &q.Unit); err != nil {
				return common.ErrBadRequest("unit must be a string")
			}
		case "category":
			if err := json.Unmarshal(raw, &q.Category); err != nil {
				return common.ErrBadRequest("category must be a string")
			}
		case "unit_price":
			var n json.Number
			if err := json.Unmarshal(raw, &n); err != nil {
				q.UnitPrice = 0
				continue
			}
			q.UnitPrice = common.NumberFloat(n)
			if q.UnitPrice < 0 {
				return common.ErrBadRequest("unit_price must not be negative")
			}
		case "quantity":
			var n json.Number
			if err := json.Unmarshal(raw, &n); err != nil {
				q.Quantity = 0
				continue
			}
			q.Quantity = common.NumberInt(n)
		case "total_price", "id", "updated_at":
			// derived or immutable; ignored on purpose
		default:
			if strings.TrimSpace(field) != "" {
				return common.ErrBadRequest("unknown field: " + field)
			}
		}
	}
	return nil
}
