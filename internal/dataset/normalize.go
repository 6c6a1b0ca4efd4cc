package dataset

import (
	"strings"
	"time"

	"fundboard/internal/core"
)

// Report counts the rows the normalization step had to repair or drop.
type Report struct {
	Rows            int `json:"rows"`             // records kept
	UnparsableDates int `json:"unparsable_dates"` // kept with an unknown date
	MissingAmounts  int `json:"missing_amounts"`  // kept with an unknown amount
	DroppedRows     int `json:"dropped_rows"`     // rows without a startup
	InvalidRows     int `json:"invalid_rows"`     // rows failing record validation
}

// Warnings reports whether any row needed repair.
func (r Report) Warnings() bool {
	return r.UnparsableDates > 0 || r.MissingAmounts > 0 || r.DroppedRows > 0 || r.InvalidRows > 0
}

// dateLayouts are tried in order. Slash and dash forms are day first, as in
// the Indian funding data the dashboard was built for.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
	"01/2006",
}

// ParseDate parses a dataset date cell. It returns false when no layout matches.
func ParseDate(s string) (core.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.NewDate(t.Year(), int(t.Month()), t.Day()), true
		}
	}
	return core.Date{}, false
}

// Normalize turns raw rows into funding records. It never fails: unparsable
// dates and amounts become unknown values and are counted in the report.
// A record that still breaks the record invariants, such as a date in year
// zero, is dropped and counted as invalid.
func Normalize(raws []core.RawRecord) ([]core.FundingRecord, Report) {
	var rep Report
	records := make([]core.FundingRecord, 0, len(raws))
	for _, raw := range raws {
		startup := strings.TrimSpace(raw.Startup)
		if startup == "" {
			rep.DroppedRows++
			continue
		}
		rec := core.FundingRecord{
			Startup:     startup,
			Vertical:    strings.TrimSpace(raw.Vertical),
			Subvertical: strings.TrimSpace(raw.Subvertical),
			City:        strings.TrimSpace(raw.City),
			Investors:   strings.TrimSpace(raw.Investors),
			Round:       strings.TrimSpace(raw.Round),
		}
		if d, ok := ParseDate(raw.Date); ok {
			rec.Date = d
			rec.Year = d.Year()
			rec.Month = int(d.Month())
		} else {
			rep.UnparsableDates++
		}
		if a, err := core.ParseAmount(raw.Amount); err == nil {
			rec.Amount = a
		} else {
			rep.MissingAmounts++
		}
		if err := rec.Validate(); err != nil {
			rep.InvalidRows++
			continue
		}
		records = append(records, rec)
	}
	rep.Rows = len(records)
	return records, rep
}
