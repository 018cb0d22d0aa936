package quote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/obs"
)

// ContactDirectory resolves a representative's display name and WhatsApp
// number. Implemented by the representative service.
type ContactDirectory interface {
	Contact(ctx context.Context, id uuid.UUID) (name, number string, err error)
}

// Handler exposes the quotation REST surface.
type Handler struct {
	Svc  *Service
	Reps ContactDirectory
}

// List handles GET /api/v1/quotes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.Svc.ListView(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// Comparison handles GET /api/v1/quotes/comparison.
func (h *Handler) Comparison(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Comparison(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Summary handles GET /api/v1/quotes/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Summary(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": stats})
}

// Create handles POST /api/v1/quotes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	q, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	countMutation("create")
	common.JSON(w, http.StatusCreated, map[string]any{"data": q})
}

// Update handles PATCH /api/v1/quotes/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	q, err := h.Svc.Update(r.Context(), id, patch)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	countMutation("update")
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Delete handles DELETE /api/v1/quotes/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	countMutation("delete")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"deleted": true}})
}

// Clear handles DELETE /api/v1/quotes.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Svc.Clear(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	countMutation("clear")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"removed": removed}})
}

// Duplicate handles GET /api/v1/quotes/{id}/duplicate.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	draft, err := h.Svc.Duplicate(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": draft})
}

type purchaseMessageRequest struct {
	QuoteIDs []uuid.UUID `json:"quote_ids"`
}

// PurchaseMessage handles POST /api/v1/representatives/{id}/purchase-message.
func (h *Handler) PurchaseMessage(w http.ResponseWriter, r *http.Request) {
	repID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "representative not found", nil)
		return
	}
	var req purchaseMessageRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
			return
		}
	}
	name, number, err := h.Reps.Contact(r.Context(), repID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	msg, err := h.Svc.PurchaseMessage(r.Context(), name, number, req.QuoteIDs)
	if err != nil {
		countCompose("refused")
		switch err {
		case ErrNoContact:
			common.WriteError(w, common.ErrUnprocessable("NO_CONTACT", "representative has no registered contact number"))
		case ErrEmptySelection:
			common.WriteError(w, common.ErrUnprocessable("EMPTY_SELECTION", "no quotes selected for this representative"))
		default:
			common.WriteError(w, err)
		}
		return
	}
	countCompose("ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": msg})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quote not found", nil)
		return uuid.Nil, false
	}
	return id, true
}

func countMutation(op string) {
	if obs.QuoteMutationsTotal != nil {
		obs.QuoteMutationsTotal.WithLabelValues(op).Inc()
	}
}

func countCompose(result string) {
	if obs.PurchaseMessagesTotal != nil {
		obs.PurchaseMessagesTotal.WithLabelValues(result).Inc()
	}
}
