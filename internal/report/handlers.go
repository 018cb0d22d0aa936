package report

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/quote"
)

// WinnersSource narrows a representative's quotes to the winning ones.
// Implemented by the quote service.
type WinnersSource interface {
	Winners(ctx context.Context, repName string) (quote.RepresentativeWinners, error)
}

// Handler exposes the report surface.
type Handler struct {
	Quotes WinnersSource
	Reps   quote.ContactDirectory
	Now    func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// PurchaseOrderPDF handles GET /api/v1/representatives/{id}/purchase-order.pdf.
func (h *Handler) PurchaseOrderPDF(w http.ResponseWriter, r *http.Request) {
	repID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "representative not found", nil)
		return
	}
	name, _, err := h.Reps.Contact(r.Context(), repID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	winners, err := h.Quotes.Winners(r.Context(), name)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	pdf, err := PurchaseOrder(winners, h.now())
	if err != nil {
		if errors.Is(err, quote.ErrEmptySelection) {
			common.WriteError(w, common.ErrUnprocessable("EMPTY_SELECTION", "no winning quotes for this representative"))
			return
		}
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="pedido-compra.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
