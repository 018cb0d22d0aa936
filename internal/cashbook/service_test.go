package cashbook

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	closings []Closing
}

func (f *fakeStore) Insert(ctx context.Context, c Closing) error {
	f.closings = append(f.closings, c)
	return nil
}

func (f *fakeStore) History(ctx context.Context, page, perPage int) ([]Closing, int64, error) {
	return f.closings, int64(len(f.closings)), nil
}

func (f *fakeStore) LatestSince(ctx context.Context, since time.Time) (Closing, bool, error) {
	var best Closing
	found := false
	for _, c := range f.closings {
		if !c.DataFechamento.Before(since) && (!found || c.DataFechamento.After(best.DataFechamento)) {
			best = c
			found = true
		}
	}
	return best, found, nil
}

func (f *fakeStore) LatestBetween(ctx context.Context, from, to time.Time) (Closing, bool, error) {
	var best Closing
	found := false
	for _, c := range f.closings {
		if !c.DataFechamento.Before(from) && c.DataFechamento.Before(to) &&
			(!found || c.DataFechamento.After(best.DataFechamento)) {
			best = c
			found = true
		}
	}
	return best, found, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
}

func TestCreateComputesTotals(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store, Now: fixedNow}

	c, err := svc.Create(context.Background(), Input{
		ValorInicial:  json.Number("200.00"),
		Dinheiro:      json.Number("350.50"),
		Pix:           json.Number("120.00"),
		CartaoCredito: json.Number("80.00"),
		CartaoDebito:  json.Number("49.50"),
		Responsavel:   "ana",
	})
	require.NoError(t, err)
	require.Equal(t, 600.00, c.Total)
	require.Equal(t, 400.00, c.Diferenca)
	require.Equal(t, fixedNow(), c.DataFechamento)
	require.Len(t, store.closings, 1)
}

func TestCreateValidation(t *testing.T) {
	svc := &Service{Store: &fakeStore{}, Now: fixedNow}

	_, err := svc.Create(context.Background(), Input{Dinheiro: json.Number("10")})
	require.Error(t, err, "responsavel is required")

	_, err = svc.Create(context.Background(), Input{
		Responsavel: "ana",
		Dinheiro:    json.Number("-5"),
	})
	require.Error(t, err, "negative amounts are rejected")
}

func TestOverview(t *testing.T) {
	now := fixedNow()
	store := &fakeStore{closings: []Closing{
		{Total: 500, DataFechamento: now.AddDate(0, 0, -1)},           // yesterday
		{Total: 600, Diferenca: 400, DataFechamento: now.Add(-time.Hour)}, // today
		{Total: 100, DataFechamento: now.AddDate(0, 0, -3)},           // older, ignored
	}}
	svc := &Service{Store: store, Now: fixedNow}

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ov.Today)
	require.Equal(t, 600.0, ov.Today.Total)
	require.NotNil(t, ov.YesterdayTotal)
	require.Equal(t, 500.0, *ov.YesterdayTotal)
}

func TestOverviewEmpty(t *testing.T) {
	svc := &Service{Store: &fakeStore{}, Now: fixedNow}
	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Nil(t, ov.Today)
	require.Nil(t, ov.YesterdayTotal)
}

func TestOverviewCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &fakeStore{closings: []Closing{
		{Total: 600, DataFechamento: fixedNow().Add(-time.Hour)},
	}}
	svc := &Service{Store: store, Redis: client, OverviewTTL: time.Minute, Now: fixedNow}

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first.Today)

	// the store changes but the cached copy is still served
	store.closings = nil
	second, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.NotNil(t, second.Today)

	// a new closing drops the cache
	_, err = svc.Create(context.Background(), Input{Responsavel: "ana", Dinheiro: json.Number("10")})
	require.NoError(t, err)
	third, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10.0, third.Today.Total)
}
