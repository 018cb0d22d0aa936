package catalog

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// The pharmacy ERP exports the stock report with three banner lines, then a
// header line, then one semicolon-separated row per product. Several columns
// are always blank; the positions below are the populated ones.
const (
	colCodigo      = 0
	colNome        = 1
	colLaboratorio = 3
	colGrupo       = 4
	colCurvaABC    = 6
	colEstoque     = 8
	colPrecoCompra = 9
	colPrecoCusto  = 11
	colPrecoVenda  = 16
)

const reportHeaderLines = 3

// ImportSummary reports the outcome of one stock report upload.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ParseStockReport reads an ERP stock report and returns the parsed products
// alongside the count of rows skipped for missing codigo or nome. The upload
// may be the raw semicolon-separated text or the same report saved as a
// spreadsheet; both shapes appear in the field.
func ParseStockReport(r io.Reader) ([]Product, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	lines, err := reportLines(data)
	if err != nil {
		return nil, 0, err
	}
	if len(lines) <= reportHeaderLines+1 {
		return nil, 0, common.ErrBadRequest("report has no data rows")
	}

	// banner lines, then the column header, then data
	var (
		products []Product
		skipped  int
	)
	for _, line := range lines[reportHeaderLines+1:] {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, ";") {
			continue
		}
		p, ok := parseReportRow(strings.Split(line, ";"))
		if !ok {
			skipped++
			continue
		}
		products = append(products, p)
	}
	return products, skipped, nil
}

func parseReportRow(cols []string) (Product, bool) {
	p := Product{
		Codigo:      cell(cols, colCodigo),
		Nome:        cell(cols, colNome),
		Laboratorio: cell(cols, colLaboratorio),
		Grupo:       cell(cols, colGrupo),
		CurvaABC:    cell(cols, colCurvaABC),
		Estoque:     parseStock(cell(cols, colEstoque)),
		PrecoCompra: common.ParseBRLNumber(cell(cols, colPrecoCompra)),
		PrecoCusto:  common.ParseBRLNumber(cell(cols, colPrecoCusto)),
		PrecoVenda:  common.ParseBRLNumber(cell(cols, colPrecoVenda)),
	}
	p.Normalize()
	return p, p.Valid()
}

func cell(cols []string, i int) string {
	if i >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[i])
}

// parseStock keeps only digits: the ERP writes stock as "1.234 UN".
func parseStock(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// reportLines flattens the upload into text lines. Spreadsheet uploads take
// the first sheet, joining each row's cells back with the report separator.
func reportLines(data []byte) ([]string, error) {
	if f, err := excelize.OpenReader(bytes.NewReader(data)); err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, common.ErrBadRequest("spreadsheet has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, ";"))
		}
		return lines, nil
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
