// Package sheet reads letter and date rows from spreadsheets and writes the
// shifted date table back out.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cigen/internal/model"

	"github.com/xuri/excelize/v2"
)

// Column headers. Lookups are case-insensitive.
const (
	ColNumero       = "NUMERO"
	ColNomeCompleto = "NOME COMPLETO"
	ColNome         = "NOME"
	ColData1        = "DATA1"
	ColData2        = "DATA2"
)

// DateSheetName is the sheet written by WriteDateTable.
const DateSheetName = "Datas Atualizadas"

// ErrNoSheet is returned for a workbook without sheets.
var ErrNoSheet = errors.New("workbook has no sheets")

// table is the first sheet of a workbook keyed by normalised header.
type table struct {
	header map[string]int
	rows   [][]string
}

func normHeader(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func readTable(f *excelize.File) (table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table{}, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	t := table{header: map[string]int{}}
	if len(rows) == 0 {
		return t, nil
	}
	for i, h := range rows[0] {
		k := normHeader(h)
		if k == "" {
			continue
		}
		if _, dup := t.header[k]; !dup {
			t.header[k] = i
		}
	}
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		t.rows = append(t.rows, r)
	}
	return t, nil
}

func blank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cell returns the first non-empty value among the named columns.
func (t table) cell(row []string, names ...string) string {
	for _, n := range names {
		i, ok := t.header[n]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

func open(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	return f, nil
}

func openFile(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	return f, nil
}

// ReadFieldRecords reads letter rows from the first sheet of the file at path.
func ReadFieldRecords(path string) ([]model.FieldRecord, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fieldRecords(f)
}

// ReadFieldRecordsFrom is ReadFieldRecords over an already opened stream.
func ReadFieldRecordsFrom(r io.Reader) ([]model.FieldRecord, error) {
	f, err := open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fieldRecords(f)
}

func fieldRecords(f *excelize.File) ([]model.FieldRecord, error) {
	t, err := readTable(f)
	if err != nil {
		return nil, err
	}
	out := make([]model.FieldRecord, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, model.FieldRecord{
			Numero:       t.cell(r, ColNumero),
			NomeCompleto: t.cell(r, ColNomeCompleto),
			Data1:        t.cell(r, ColData1),
			Data2:        t.cell(r, ColData2),
		})
	}
	return out, nil
}

// ReadDateRows reads name/date rows from the first sheet of the file at path.
// The name comes from NOME COMPLETO, falling back to NOME.
func ReadDateRows(path string) ([]model.DateRow, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dateRows(f)
}

// ReadDateRowsFrom is ReadDateRows over an already opened stream.
func ReadDateRowsFrom(r io.Reader) ([]model.DateRow, error) {
	f, err := open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dateRows(f)
}

func dateRows(f *excelize.File) ([]model.DateRow, error) {
	t, err := readTable(f)
	if err != nil {
		return nil, err
	}
	out := make([]model.DateRow, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, model.DateRow{
			NomeCompleto: t.cell(r, ColNomeCompleto, ColNome),
			Data1:        t.cell(r, ColData1),
			Data2:        t.cell(r, ColData2),
		})
	}
	return out, nil
}
