// Package xlsx reads the funding dataset from an Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"fundboard/internal/core"
	"fundboard/internal/source"
)

type Source struct {
	path  string
	sheet string // empty selects the first sheet
}

var _ source.RecordSource = (*Source)(nil)

func New(path, sheet string) *Source {
	return &Source{path: path, sheet: sheet}
}

func (s *Source) LoadRecords(ctx context.Context) ([]core.RawRecord, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, &core.LoadError{Source: s.path, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	records, sheet, err := Read(f, s.sheet)
	if err != nil {
		return nil, &core.LoadError{Source: s.path, Err: err}
	}
	slog.InfoContext(ctx, "Dataset read from workbook", "path", s.path, "sheet", sheet, "rows", len(records))
	return records, nil
}

// Read extracts the dataset from the named sheet, or the first sheet when
// sheet is empty. It returns the sheet actually used.
func Read(f *excelize.File, sheet string) ([]core.RawRecord, string, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, sheet, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, sheet, fmt.Errorf("sheet %q is empty", sheet)
	}
	records, err := source.ParseTable(rows[0], rows[1:])
	return records, sheet, err
}

// Write exports raw records to a new workbook with a single sheet.
func Write(path, sheet string, records []core.RawRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Funding"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	header := make([]interface{}, len(core.Columns))
	for i, col := range core.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for r, rec := range records {
		row := make([]interface{}, len(core.Columns))
		for i, col := range core.Columns {
			row[i] = rec.Field(col)
		}
		cellRef, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	return f.SaveAs(path)
}
