// Package csvfile reads the funding dataset from a CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"fundboard/internal/core"
	"fundboard/internal/source"
)

type Source struct {
	path string
}

var _ source.RecordSource = (*Source)(nil)

func New(path string) *Source {
	return &Source{path: path}
}

// LoadRecords reads the whole file. Any I/O or CSV syntax problem is a core.LoadError.
func (s *Source) LoadRecords(ctx context.Context) ([]core.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &core.LoadError{Source: s.path, Err: err}
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, &core.LoadError{Source: s.path, Err: err}
	}
	slog.InfoContext(ctx, "Dataset read from CSV", "path", s.path, "rows", len(records))
	return records, nil
}

// Read parses CSV content with a header row.
func Read(r io.Reader) ([]core.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return source.ParseTable(header, rows)
}

// Write serializes raw records as CSV with the canonical header.
func Write(w io.Writer, records []core.RawRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns); err != nil {
		return err
	}
	row := make([]string, len(core.Columns))
	for _, rec := range records {
		for i, col := range core.Columns {
			row[i] = rec.Field(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
