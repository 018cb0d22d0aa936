package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/obs"
)

// Service orchestrates catalog queries, imports, and page caching.
type Service struct {
	store        Store
	cache        *Cache
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store        Store
	Cache        *Cache
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		store:        cfg.Store,
		cache:        cfg.Cache,
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ListParams captures pagination and the name filter.
type ListParams struct {
	Query string
	Page  int
	Limit int
}

// ListResult contains one page and its pagination metadata.
type ListResult struct {
	Items []Product
	Total int64
	Page  int
	Limit int
}

// ParseListParams normalises raw query values into typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  s.defaultPage,
		Limit: s.defaultLimit,
		Query: normalizeQuery(values.Get("q")),
	}
	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, common.ErrBadRequest("page must be a positive integer")
		}
		params.Page = page
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return params, common.ErrBadRequest("limit must be a positive integer")
		}
		params.Limit = limit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	return params, nil
}

type cachedPage struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
}

// List returns one catalog page, served from Redis when a fresh copy exists.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	key := s.cache.ListKey(ctx, params)
	if key != "" {
		var cached cachedPage
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return ListResult{Items: cached.Items, Total: cached.Total, Page: params.Page, Limit: params.Limit}, nil
		}
	}
	items, total, err := s.store.List(ctx, params)
	if err != nil {
		return ListResult{}, err
	}
	if key != "" {
		_ = s.cache.SetJSON(ctx, key, cachedPage{Items: items, Total: total})
	}
	return ListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// Get fetches one catalog entry.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.store.Get(ctx, id)
}

// Input is the payload accepted by create and update.
type Input struct {
	Codigo      string      `json:"codigo"`
	Nome        string      `json:"nome"`
	Laboratorio string      `json:"laboratorio"`
	Grupo       string      `json:"grupo"`
	CurvaABC    string      `json:"curva_abc"`
	Estoque     json.Number `json:"estoque"`
	PrecoCompra json.Number `json:"preco_compra"`
	PrecoCusto  json.Number `json:"preco_custo"`
	PrecoVenda  json.Number `json:"preco_venda"`
}

// Create inserts a new catalog entry from form input.
func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	p, err := resolve(in)
	if err != nil {
		return Product{}, err
	}
	p.ID = uuid.New()
	if err := s.store.Insert(ctx, p); err != nil {
		return Product{}, err
	}
	s.cache.Invalidate(ctx)
	return p, nil
}

// Update overwrites a catalog entry with form input.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Product, error) {
	p, err := resolve(in)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	if err := s.store.Update(ctx, p); err != nil {
		return Product{}, err
	}
	s.cache.Invalidate(ctx)
	return p, nil
}

// Delete removes one catalog entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Import parses an ERP stock report upload and lands the valid rows.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	products, skipped, err := ParseStockReport(r)
	if err != nil {
		return ImportSummary{}, err
	}
	countImport("skipped", skipped)
	if len(products) == 0 {
		return ImportSummary{}, common.ErrUnprocessable("EMPTY_IMPORT", "no valid products in the report")
	}
	for i := range products {
		products[i].ID = uuid.New()
	}
	inserted, err := s.store.InsertBatch(ctx, products)
	countImport("imported", inserted)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("import products: %w", err)
	}
	s.cache.Invalidate(ctx)
	return ImportSummary{Imported: inserted, Skipped: skipped}, nil
}

func resolve(in Input) (Product, error) {
	p := Product{
		Codigo:      in.Codigo,
		Nome:        in.Nome,
		Laboratorio: in.Laboratorio,
		Grupo:       in.Grupo,
		CurvaABC:    in.CurvaABC,
		Estoque:     common.NumberInt(in.Estoque),
		PrecoCompra: common.NumberFloat(in.PrecoCompra),
		PrecoCusto:  common.NumberFloat(in.PrecoCusto),
		PrecoVenda:  common.NumberFloat(in.PrecoVenda),
	}
	p.Normalize()
	if !p.Valid() {
		return Product{}, common.ErrBadRequest("codigo and nome are required")
	}
	if p.Estoque < 0 || p.PrecoCompra < 0 || p.PrecoCusto < 0 || p.PrecoVenda < 0 {
		return Product{}, common.ErrBadRequest("stock and prices must not be negative")
	}
	return p, nil
}

func countImport(result string, n int) {
	if n > 0 && obs.ImportRowsTotal != nil {
		obs.ImportRowsTotal.WithLabelValues("product", result).Add(float64(n))
	}
}
