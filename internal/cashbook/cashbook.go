// Package cashbook records daily cash-register closings.
package cashbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Closing is one cash-register closing. Total and Diferenca are always
// computed server-side from the four tenders; client-supplied values for
// them are ignored.
type Closing struct {
	ID             uuid.UUID `json:"id"`
	ValorInicial   float64   `json:"valor_inicial"`
	Dinheiro       float64   `json:"dinheiro"`
	Pix            float64   `json:"pix"`
	CartaoCredito  float64   `json:"cartao_credito"`
	CartaoDebito   float64   `json:"cartao_debito"`
	Total          float64   `json:"total"`
	Diferenca      float64   `json:"diferenca"`
	Responsavel    string    `json:"responsavel"`
	Observacoes    string    `json:"observacoes,omitempty"`
	DataFechamento time.Time `json:"data_fechamento"`
}

// ComputeTotals derives total and diferenca from the tender amounts.
func (c *Closing) ComputeTotals() {
	c.ValorInicial = common.SafeFloat(c.ValorInicial)
	c.Dinheiro = common.SafeFloat(c.Dinheiro)
	c.Pix = common.SafeFloat(c.Pix)
	c.CartaoCredito = common.SafeFloat(c.CartaoCredito)
	c.CartaoDebito = common.SafeFloat(c.CartaoDebito)
	c.Total = c.Dinheiro + c.Pix + c.CartaoCredito + c.CartaoDebito
	c.Diferenca = c.Total - c.ValorInicial
}
