// Package report renders printable documents for the back office.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
	"github.com/nandoportifolio33/cotacao-api/internal/quote"
)

// PurchaseOrder renders a representative's winning quotes as an A4
// purchase-order PDF: header with representative and date, an item table and
// the grand total. An empty selection is refused the same way the message
// composer refuses it.
func PurchaseOrder(w quote.RepresentativeWinners, now time.Time) ([]byte, error) {
	if len(w.Quotes) == 0 {
		return nil, quote.ErrEmptySelection
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Pedido de Compra", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Pedido de Compra"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Representante: %s", w.Representative)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Data: %s", now.Format("02/01/2006"))))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(90, 7, tr("Produto"))
	pdf.Cell(25, 7, tr("Qtd."))
	pdf.Cell(35, 7, tr("Preço unit."))
	pdf.Cell(35, 7, tr("Subtotal"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, q := range w.Quotes {
		pdf.Cell(90, 6, tr(clip(q.ProductName, 50)))
		pdf.Cell(25, 6, tr(fmt.Sprintf("%d %s", q.Quantity, q.Unit)))
		pdf.Cell(35, 6, tr(common.FormatBRL(q.UnitPrice)))
		pdf.Cell(35, 6, tr(common.FormatBRL(q.LineTotal())))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Total do pedido: %s", common.FormatBRL(w.Total))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render purchase order: %w", err)
	}
	return buf.Bytes(), nil
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
