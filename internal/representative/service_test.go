package representative

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

type fakeStore struct {
	reps []Representative
}

func (f *fakeStore) List(ctx context.Context, query string) ([]Representative, error) {
	var out []Representative
	for _, rep := range f.reps {
		if query == "" ||
			strings.Contains(strings.ToLower(rep.Nome), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(rep.Empresa), strings.ToLower(query)) {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id uuid.UUID) (Representative, error) {
	for _, rep := range f.reps {
		if rep.ID == id {
			return rep, nil
		}
	}
	return Representative{}, common.ErrNotFound("representative not found")
}

func (f *fakeStore) Insert(ctx context.Context, rep Representative) error {
	f.reps = append(f.reps, rep)
	return nil
}

func (f *fakeStore) Update(ctx context.Context, rep Representative) error {
	for i := range f.reps {
		if f.reps[i].ID == rep.ID {
			f.reps[i] = rep
			return nil
		}
	}
	return common.ErrNotFound("representative not found")
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.reps {
		if f.reps[i].ID == id {
			f.reps = append(f.reps[:i], f.reps[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound("representative not found")
}

func TestServiceCreate(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store}

	rep, err := svc.Create(context.Background(), Input{
		Nome:       "  Cirlane Recomed ",
		Empresa:    "Recomed",
		Contato:    "5577981130802",
		Categorias: []string{"Medicamentos", "Vinhos"},
	})
	require.NoError(t, err)
	require.Equal(t, "Cirlane Recomed", rep.Nome)
	require.Equal(t, []string{"Medicamentos"}, rep.Categorias, "unknown categories are dropped")
	require.NotEqual(t, uuid.Nil, rep.ID)
	require.Len(t, store.reps, 1)
}

func TestServiceCreateRequiresName(t *testing.T) {
	svc := &Service{Store: &fakeStore{}}
	_, err := svc.Create(context.Background(), Input{Empresa: "Recomed"})
	require.Error(t, err)
	require.True(t, common.IsAppError(err))
}

func TestServiceContact(t *testing.T) {
	rep := Representative{ID: uuid.New(), Nome: "Luis Total", Contato: "5577988100406"}
	svc := &Service{Store: &fakeStore{reps: []Representative{rep}}}

	name, number, err := svc.Contact(context.Background(), rep.ID)
	require.NoError(t, err)
	require.Equal(t, "Luis Total", name)
	require.Equal(t, "5577988100406", number)

	_, _, err = svc.Contact(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestServiceSearch(t *testing.T) {
	svc := &Service{Store: &fakeStore{reps: []Representative{
		{ID: uuid.New(), Nome: "Cirlane Recomed", Empresa: "Recomed"},
		{ID: uuid.New(), Nome: "Luis Total", Empresa: "Total Distribuidora"},
	}}}

	reps, err := svc.List(context.Background(), " total ")
	require.NoError(t, err)
	require.Len(t, reps, 1)
	require.Equal(t, "Luis Total", reps[0].Nome)
}
