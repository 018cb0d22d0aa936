package cashbook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/obs"
)

const overviewCacheKey = "cashbook:overview"

// Service records closings and assembles the register overview.
type Service struct {
	Store Store
	// Redis holds the overview for OverviewTTL; nil disables caching.
	Redis       *redis.Client
	OverviewTTL time.Duration
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Input is the payload accepted when closing the register. Total and
// diferenca are not part of it: they are never trusted from the client.
type Input struct {
	ValorInicial  json.Number `json:"valor_inicial"`
	Dinheiro      json.Number `json:"dinheiro"`
	Pix           json.Number `json:"pix"`
	CartaoCredito json.Number `json:"cartao_credito"`
	CartaoDebito  json.Number `json:"cartao_debito"`
	Responsavel   string      `json:"responsavel"`
	Observacoes   string      `json:"observacoes"`
}

// Create records a closing with server-computed totals.
func (s *Service) Create(ctx context.Context, in Input) (Closing, error) {
	if in.Responsavel == "" {
		return Closing{}, common.ErrBadRequest("responsavel is required")
	}
	c := Closing{
		ID:             uuid.New(),
		ValorInicial:   common.NumberFloat(in.ValorInicial),
		Dinheiro:       common.NumberFloat(in.Dinheiro),
		Pix:            common.NumberFloat(in.Pix),
		CartaoCredito:  common.NumberFloat(in.CartaoCredito),
		CartaoDebito:   common.NumberFloat(in.CartaoDebito),
		Responsavel:    in.Responsavel,
		Observacoes:    in.Observacoes,
		DataFechamento: s.now(),
	}
	if c.ValorInicial < 0 || c.Dinheiro < 0 || c.Pix < 0 || c.CartaoCredito < 0 || c.CartaoDebito < 0 {
		return Closing{}, common.ErrBadRequest("amounts must not be negative")
	}
	c.ComputeTotals()
	if err := s.Store.Insert(ctx, c); err != nil {
		return Closing{}, err
	}
	if obs.CashClosingsTotal != nil {
		obs.CashClosingsTotal.Inc()
	}
	s.dropOverview(ctx)
	return c, nil
}

// HistoryPage is one page of closings.
type HistoryPage struct {
	Items []Closing `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
}

// History returns closings newest first.
func (s *Service) History(ctx context.Context, page, perPage int) (HistoryPage, error) {
	items, total, err := s.Store.History(ctx, page, perPage)
	if err != nil {
		return HistoryPage{}, err
	}
	return HistoryPage{Items: items, Total: total, Page: page}, nil
}

// Overview is the register dashboard: today's closing, if any, and the
// total from yesterday's for comparison.
type Overview struct {
	Today          *Closing `json:"today"`
	YesterdayTotal *float64 `json:"yesterday_total"`
}

// Overview assembles the dashboard payload, served from Redis for a short
// window since it only changes when the register closes.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	if s.Redis != nil {
		if data, err := s.Redis.Get(ctx, overviewCacheKey).Bytes(); err == nil {
			var cached Overview
			if json.Unmarshal(data, &cached) == nil {
				countCache("hit")
				return cached, nil
			}
		} else if err == redis.Nil {
			countCache("miss")
		}
	}

	now := s.now()
	startToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startYesterday := startToday.AddDate(0, 0, -1)

	var ov Overview
	today, ok, err := s.Store.LatestSince(ctx, startToday)
	if err != nil {
		return Overview{}, err
	}
	if ok {
		ov.Today = &today
	}
	yesterday, ok, err := s.Store.LatestBetween(ctx, startYesterday, startToday)
	if err != nil {
		return Overview{}, err
	}
	if ok {
		total := yesterday.Total
		ov.YesterdayTotal = &total
	}

	if s.Redis != nil {
		if data, err := json.Marshal(ov); err == nil {
			ttl := s.OverviewTTL
			if ttl <= 0 {
				ttl = 30 * time.Second
			}
			_ = s.Redis.Set(ctx, overviewCacheKey, data, ttl).Err()
		}
	}
	return ov, nil
}

func (s *Service) dropOverview(ctx context.Context) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, overviewCacheKey).Err()
	}
}

func countCache(result string) {
	if obs.CacheRequestsTotal != nil {
		obs.CacheRequestsTotal.WithLabelValues("cashbook", result).Inc()
	}
}
