package payable

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

type fakeStore struct {
	payables []Payable
}

func (f *fakeStore) List(ctx context.Context) ([]Payable, error) {
	out := make([]Payable, len(f.payables))
	copy(out, f.payables)
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id uuid.UUID) (Payable, error) {
	for _, p := range f.payables {
		if p.ID == id {
			return p, nil
		}
	}
	return Payable{}, common.ErrNotFound("payable not found")
}

func (f *fakeStore) Insert(ctx context.Context, p Payable) error {
	f.payables = append(f.payables, p)
	return nil
}

func (f *fakeStore) Update(ctx context.Context, p Payable) error {
	for i := range f.payables {
		if f.payables[i].ID == p.ID {
			f.payables[i] = p
			return nil
		}
	}
	return common.ErrNotFound("payable not found")
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.payables {
		if f.payables[i].ID == id {
			f.payables = append(f.payables[:i], f.payables[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound("payable not found")
}

func (f *fakeStore) Fornecedores(ctx context.Context) ([]Ref, error) { return nil, nil }
func (f *fakeStore) Categorias(ctx context.Context) ([]Ref, error)   { return nil, nil }

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func TestCreatePayable(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store, Now: fixedNow}

	p, err := svc.Create(context.Background(), Input{
		Descricao:      "Boleto distribuidora",
		ValorTotal:     json.Number("1530.00"),
		DataVencimento: "2026-04-01",
		FormaPagamento: PaymentBoleto,
	})
	require.NoError(t, err)
	require.Equal(t, StatusEmAberto, p.Status, "status defaults to em_aberto")
	require.Len(t, store.payables, 1)
}

func TestCreatePayableValidation(t *testing.T) {
	svc := &Service{Store: &fakeStore{}, Now: fixedNow}
	cases := []Input{
		{ValorTotal: json.Number("10"), DataVencimento: "2026-04-01"},                                    // no description
		{Descricao: "x", DataVencimento: "2026-04-01"},                                                  // zero total
		{Descricao: "x", ValorTotal: json.Number("10")},                                                 // no due date
		{Descricao: "x", ValorTotal: json.Number("10"), DataVencimento: "01/04/2026"},                   // wrong layout
		{Descricao: "x", ValorTotal: json.Number("10"), DataVencimento: "2026-04-01", Status: "quitado"}, // unknown status
		{Descricao: "x", ValorTotal: json.Number("10"), DataVencimento: "2026-04-01", Parcelado: true, NumeroParcelas: 1},
	}
	for i, in := range cases {
		_, err := svc.Create(context.Background(), in)
		require.Error(t, err, "case %d", i)
	}
}

func TestListFlagsOverdue(t *testing.T) {
	store := &fakeStore{payables: []Payable{
		{ID: uuid.New(), Descricao: "vencida", Status: StatusEmAberto, DataVencimento: "2026-03-10"},
		{ID: uuid.New(), Descricao: "vence hoje", Status: StatusEmAberto, DataVencimento: "2026-03-15"},
		{ID: uuid.New(), Descricao: "futura", Status: StatusEmAberto, DataVencimento: "2026-04-01"},
		{ID: uuid.New(), Descricao: "paga antiga", Status: StatusPago, DataVencimento: "2026-03-01"},
	}}
	svc := &Service{Store: store, Now: fixedNow}

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusAtrasado, views[0].EffectiveStatus)
	require.Equal(t, StatusEmAberto, views[1].EffectiveStatus, "due today is not yet late")
	require.Equal(t, StatusEmAberto, views[2].EffectiveStatus)
	require.Equal(t, StatusPago, views[3].EffectiveStatus, "paid payables never surface as overdue")

	// the stored status is untouched
	require.Equal(t, StatusEmAberto, store.payables[0].Status)
}

func TestMarkPaid(t *testing.T) {
	p := Payable{ID: uuid.New(), Descricao: "boleto", Status: StatusEmAberto, ValorTotal: 1530.00, DataVencimento: "2026-03-10"}
	store := &fakeStore{payables: []Payable{p}}
	svc := &Service{Store: store, Now: fixedNow}

	paid, err := svc.MarkPaid(context.Background(), p.ID, nil)
	require.NoError(t, err)
	require.Equal(t, StatusPago, paid.Status)
	require.Equal(t, 1530.00, paid.ValorPago, "defaults to the full total")
	require.NotNil(t, paid.DataPagamento)
	require.Equal(t, fixedNow(), *paid.DataPagamento)

	// paying twice is refused
	_, err = svc.MarkPaid(context.Background(), p.ID, nil)
	require.Error(t, err)
}

func TestMarkPaidPartial(t *testing.T) {
	p := Payable{ID: uuid.New(), Descricao: "boleto", Status: StatusAtrasado, ValorTotal: 100, DataVencimento: "2026-03-01"}
	store := &fakeStore{payables: []Payable{p}}
	svc := &Service{Store: store, Now: fixedNow}

	partial := 60.0
	paid, err := svc.MarkPaid(context.Background(), p.ID, &partial)
	require.NoError(t, err)
	require.Equal(t, 60.0, paid.ValorPago)

	negative := -1.0
	_, err = svc.MarkPaid(context.Background(), uuid.New(), &negative)
	require.Error(t, err)
}

func TestUpdatePreservesPaymentFields(t *testing.T) {
	when := fixedNow()
	p := Payable{ID: uuid.New(), Descricao: "boleto", Status: StatusPago, ValorTotal: 100, ValorPago: 100, DataPagamento: &when, DataVencimento: "2026-03-01"}
	store := &fakeStore{payables: []Payable{p}}
	svc := &Service{Store: store, Now: fixedNow}

	updated, err := svc.Update(context.Background(), p.ID, Input{
		Descricao:      "boleto corrigido",
		ValorTotal:     json.Number("100"),
		DataVencimento: "2026-03-01",
		Status:         StatusPago,
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, updated.ValorPago)
	require.NotNil(t, updated.DataPagamento)
}
