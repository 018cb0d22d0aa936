package cashbook

import (
	"encoding/json"
	"net/http"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Handler exposes the cashbook REST surface.
type Handler struct {
	Svc *Service
}

// Create handles POST /api/v1/cashbook/closings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	c, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": c})
}

// History handles GET /api/v1/cashbook/closings.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20, 100)
	result, err := h.Svc.History(r.Context(), page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.Pagination{Page: result.Page, PerPage: perPage, TotalItems: int(result.Total)},
	})
}

// Overview handles GET /api/v1/cashbook/overview.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Svc.Overview(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ov})
}
