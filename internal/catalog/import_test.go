package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reportRow(codigo, nome, laboratorio, grupo, curva, estoque, compra, custo, venda string) string {
	cols := make([]string, 17)
	cols[colCodigo] = codigo
	cols[colNome] = nome
	cols[colLaboratorio] = laboratorio
	cols[colGrupo] = grupo
	cols[colCurvaABC] = curva
	cols[colEstoque] = estoque
	cols[colPrecoCompra] = compra
	cols[colPrecoCusto] = custo
	cols[colPrecoVenda] = venda
	return strings.Join(cols, ";")
}

func sampleReport() string {
	return strings.Join([]string{
		"FARMACIA CENTRAL LTDA",
		"RELATORIO DE ESTOQUE",
		"Emitido em 15/03/2026",
		"CODIGO;PRODUTO;;LABORATORIO;GRUPO;;ABC;;ESTOQ;PR.COMPRA;;PR.CUSTO;;;;;PR.VENDA",
		reportRow("1001", "Dipirona 500mg", "Medley", "Analgésicos", "A", "120", "2,10", "2,35", "4,90"),
		reportRow("1002", "Amoxicilina 250mg", "EMS", "Antibióticos", "B", "1.240", "8,00", "8,75", "15,50"),
		reportRow("", "Sem código", "X", "", "", "1", "1,00", "1,00", "1,00"),
		reportRow("1003", "", "X", "", "", "1", "1,00", "1,00", "1,00"),
		"",
	}, "\n")
}

func TestParseStockReport(t *testing.T) {
	products, skipped, err := ParseStockReport(strings.NewReader(sampleReport()))
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, 2, skipped, "rows without codigo or nome are skipped")

	first := products[0]
	require.Equal(t, "1001", first.Codigo)
	require.Equal(t, "Dipirona 500mg", first.Nome)
	require.Equal(t, "Medley", first.Laboratorio)
	require.Equal(t, "Analgésicos", first.Grupo)
	require.Equal(t, "A", first.CurvaABC)
	require.Equal(t, 120, first.Estoque)
	require.Equal(t, 2.10, first.PrecoCompra)
	require.Equal(t, 2.35, first.PrecoCusto)
	require.Equal(t, 4.90, first.PrecoVenda)

	// BR thousands separator in stock and prices
	second := products[1]
	require.Equal(t, 1240, second.Estoque)
	require.Equal(t, 8.00, second.PrecoCompra)
}

func TestParseStockReportEmpty(t *testing.T) {
	_, _, err := ParseStockReport(strings.NewReader("so um cabecalho\n"))
	require.Error(t, err)
}

func TestParseStockReportSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	lines := strings.Split(sampleReport(), "\n")
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &[]any{line}))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	products, skipped, err := ParseStockReport(&buf)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, 2, skipped)
	require.Equal(t, "Dipirona 500mg", products[0].Nome)
}

func TestParseStock(t *testing.T) {
	require.Equal(t, 1234, parseStock("1.234 UN"))
	require.Equal(t, 0, parseStock(""))
	require.Equal(t, 0, parseStock("N/D"))
}
