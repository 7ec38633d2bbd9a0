package sheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cigen/internal/model"

	"github.com/xuri/excelize/v2"
)

// Column is a written column with its width in characters.
type Column struct {
	Name  string
	Width float64
}

// DateColumns is the layout of the shifted date table.
var DateColumns = []Column{
	{Name: ColNumero, Width: 8},
	{Name: ColNomeCompleto, Width: 35},
	{Name: ColData1, Width: 10},
	{Name: ColData2, Width: 10},
}

// SequenceNumber formats the 0-based index i as a 1-based, two-digit number.
func SequenceNumber(i int) string {
	return fmt.Sprintf("%02d", i+1)
}

// WriteDateTable writes rows as an xlsx workbook to w. NUMERO is the row's
// sequence number.
func WriteDateTable(w io.Writer, rows []model.DateRow) error {
	f, err := dateWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteDateTableFile writes rows as an xlsx workbook at path, creating
// parent directories.
func WriteDateTableFile(path string, rows []model.DateRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := dateWorkbook(rows)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func dateWorkbook(rows []model.DateRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), DateSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeColumns(f, DateSheetName, DateColumns); err != nil {
		f.Close()
		return nil, err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		vals := []any{SequenceNumber(i), r.NomeCompleto, r.Data1, r.Data2}
		if err := f.SetSheetRow(DateSheetName, cell, &vals); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func writeColumns(f *excelize.File, sheet string, cols []Column) error {
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Name
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, c.Width); err != nil {
			return fmt.Errorf("set width of %s: %w", c.Name, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, bold)
}
