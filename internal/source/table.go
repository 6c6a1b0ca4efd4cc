package source

import (
	"fmt"
	"strings"

	"fundboard/internal/core"
)

// ParseTable maps a header row and its data rows onto RawRecords.
//
// Header cells are matched case-insensitively after trimming. Columns that are
// not part of the dataset (a leading index column, for instance) are ignored.
// A header lacking any required column yields core.ErrMissingColumns. Rows
// shorter than the header are padded with empty cells; fully blank rows are
// skipped.
func ParseTable(header []string, rows [][]string) ([]core.RawRecord, error) {
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}
	records := make([]core.RawRecord, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		var rec core.RawRecord
		for _, col := range core.Columns {
			rec.Set(col, cell(row, index[col]))
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(core.Columns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
	}
	var missing []string
	for _, col := range core.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s; got header=%v", core.ErrMissingColumns, strings.Join(missing, ","), header)
	}
	return index, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ToStrings converts a row of loosely typed cells, as returned by spreadsheet
// APIs, into strings.
func ToStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch t := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = t
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}
