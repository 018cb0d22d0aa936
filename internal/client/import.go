package client

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// ImportSummary reports the outcome of one client spreadsheet upload.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ParseSpreadsheet reads a client spreadsheet: the first row names the
// columns (nome, telefone, email, cpf, endereco, observacoes, saldo_devedor,
// status_pagamento, ultima_compra; capitalised and accented variants are
// accepted), each following row is one client. Rows without nome and
// telefone are counted as skipped.
func ParseSpreadsheet(r io.Reader) ([]Client, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, common.ErrBadRequest("file is not a spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, common.ErrBadRequest("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, err
	}
	if len(rows) < 2 {
		return nil, 0, common.ErrBadRequest("spreadsheet has no data rows")
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[headerKey(name)] = i
	}

	var (
		clients []Client
		skipped int
	)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		c := Client{
			Nome:            field(row, cols, "nome"),
			Telefone:        field(row, cols, "telefone"),
			Email:           field(row, cols, "email"),
			CPF:             field(row, cols, "cpf"),
			Endereco:        field(row, cols, "endereco"),
			Observacoes:     field(row, cols, "observacoes"),
			SaldoDevedor:    common.ParseBRLNumber(field(row, cols, "saldo_devedor")),
			StatusPagamento: field(row, cols, "status_pagamento"),
			UltimaCompra:    field(row, cols, "ultima_compra"),
		}
		if !ValidStatus(c.StatusPagamento) {
			c.StatusPagamento = ""
		}
		c.Normalize()
		if !c.Valid() {
			skipped++
			continue
		}
		clients = append(clients, c)
	}
	return clients, skipped, nil
}

func field(row []string, cols map[string]int, key string) string {
	i, ok := cols[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// headerKey folds a header cell to the canonical column name: lower case,
// spaces to underscores, the few accented letters these sheets use stripped.
func headerKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	replacer := strings.NewReplacer(
		"á", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "õ", "o", "ô", "o",
		"ú", "u",
		"ç", "c",
	)
	name = replacer.Replace(name)
	if name == "status" {
		return "status_pagamento"
	}
	return name
}
