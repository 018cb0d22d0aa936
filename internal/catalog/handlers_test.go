package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

type fakeStore struct {
	products []Product
}

func (f *fakeStore) List(ctx context.Context, p ListParams) ([]Product, int64, error) {
	var matched []Product
	for _, prod := range f.products {
		if p.Query == "" || strings.Contains(strings.ToLower(prod.Nome), strings.ToLower(p.Query)) {
			matched = append(matched, prod)
		}
	}
	total := int64(len(matched))
	start := (p.Page - 1) * p.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeStore) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, common.ErrNotFound("product not found")
}

func (f *fakeStore) Insert(ctx context.Context, p Product) error {
	f.products = append(f.products, p)
	return nil
}

func (f *fakeStore) InsertBatch(ctx context.Context, products []Product) (int, error) {
	f.products = append(f.products, products...)
	return len(products), nil
}

func (f *fakeStore) Update(ctx context.Context, p Product) error {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = p
			return nil
		}
	}
	return common.ErrNotFound("product not found")
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound("product not found")
}

func newTestRouter(t *testing.T, store Store) chi.Router {
	t.Helper()
	svc, err := NewService(ServiceConfig{Store: store, DefaultLimit: 2, MaxLimit: 5})
	require.NoError(t, err)
	h := NewHandler(HandlerConfig{Service: svc})
	r := chi.NewRouter()
	r.Get("/api/v1/products", h.List)
	r.Post("/api/v1/products", h.Create)
	r.Post("/api/v1/products/import", h.Import)
	r.Get("/api/v1/products/{id}", h.Get)
	r.Put("/api/v1/products/{id}", h.Update)
	r.Delete("/api/v1/products/{id}", h.Delete)
	return r
}

func product(codigo, nome string) Product {
	return Product{ID: uuid.New(), Codigo: codigo, Nome: nome, PrecoVenda: 10}
}

func TestHandlerListPagination(t *testing.T) {
	store := &fakeStore{products: []Product{
		product("1", "Dipirona 500mg"),
		product("2", "Dipirona 1g"),
		product("3", "Amoxicilina"),
	}}
	r := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-Total-Count"))

	var resp struct {
		Data       []Product         `json:"data"`
		Pagination common.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1, "page 2 with limit 2 holds the remainder")
	require.Equal(t, 2, resp.Pagination.Page)
	require.Equal(t, 3, resp.Pagination.TotalItems)
}

func TestHandlerListSearch(t *testing.T) {
	store := &fakeStore{products: []Product{
		product("1", "Dipirona 500mg"),
		product("2", "Amoxicilina"),
	}}
	r := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?q=dipirona", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-Total-Count"))
}

func TestHandlerListRejectsBadPage(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=zero", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCreateProduct(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(t, store)

	body := `{"codigo":" 1001 ","nome":"  Dipirona 500mg ","estoque":120,"preco_venda":4.90}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.products, 1)
	require.Equal(t, "1001", store.products[0].Codigo)
	require.Equal(t, "Dipirona 500mg", store.products[0].Nome)
}

func TestHandlerCreateProductRequiresIdentity(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/products",
		bytes.NewBufferString(`{"nome":"Sem código"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateProduct(t *testing.T) {
	existing := product("1001", "Dipirona 500mg")
	store := &fakeStore{products: []Product{existing}}
	r := newTestRouter(t, store)

	body := `{"codigo":"1001","nome":"Dipirona 500mg","estoque":90,"preco_venda":5.20}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/products/"+existing.ID.String(),
		bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 90, store.products[0].Estoque)
	require.Equal(t, 5.20, store.products[0].PrecoVenda)
}

func TestHandlerGetUnknownProduct(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerImport(t *testing.T) {
	store := &fakeStore{}
	r := newTestRouter(t, store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "estoque.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleReport()))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data ImportSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Data.Imported)
	require.Equal(t, 2, resp.Data.Skipped)
	require.Len(t, store.products, 2)
	for _, p := range store.products {
		require.NotEqual(t, uuid.Nil, p.ID)
	}
}

func TestHandlerImportRejectsEmptyReport(t *testing.T) {
	r := newTestRouter(t, &fakeStore{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "estoque.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(strings.Join([]string{
		"FARMACIA CENTRAL LTDA",
		"RELATORIO DE ESTOQUE",
		"Emitido em 15/03/2026",
		"CODIGO;PRODUTO",
		reportRow("", "", "", "", "", "", "", "", ""),
	}, "\n")))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "EMPTY_IMPORT")
}
