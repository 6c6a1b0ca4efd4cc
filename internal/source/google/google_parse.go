package google

import (
	"errors"

	"fundboard/internal/core"
	"fundboard/internal/source"
)

// parseValues converts a values matrix (as returned by the Sheets API) into
// raw records. The first row is the header.
func parseValues(values [][]interface{}) ([]core.RawRecord, error) {
	if len(values) == 0 {
		return nil, errors.New("range is empty")
	}
	header := source.ToStrings(values[0])
	rows := make([][]string, 0, len(values)-1)
	for _, v := range values[1:] {
		rows = append(rows, source.ToStrings(v))
	}
	return source.ParseTable(header, rows)
}
