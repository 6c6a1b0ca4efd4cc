// Package dataset holds the immutable, normalized funding dataset.
//
// A Dataset is built once at startup and passed explicitly to every query;
// nothing in it changes afterwards, so it is safe for concurrent readers.
package dataset

import (
	"context"
	"log/slog"
	"slices"

	"fundboard/internal/core"
	"fundboard/internal/source"
)

type Dataset struct {
	records  []core.FundingRecord
	startups []string
	report   Report
}

// New normalizes raw rows into a Dataset.
func New(raws []core.RawRecord) *Dataset {
	records, rep := Normalize(raws)
	return FromRecords(records, rep)
}

// FromRecords wraps already normalized records. The slice is copied.
func FromRecords(records []core.FundingRecord, rep Report) *Dataset {
	records = slices.Clone(records)
	seen := make(map[string]struct{}, len(records))
	startups := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Startup]; ok {
			continue
		}
		seen[r.Startup] = struct{}{}
		startups = append(startups, r.Startup)
	}
	slices.Sort(startups)
	rep.Rows = len(records)
	return &Dataset{records: records, startups: startups, report: rep}
}

// Load reads the source once and normalizes it. Source failures are returned
// as is; they are expected to be core.LoadError values.
func Load(ctx context.Context, src source.RecordSource) (*Dataset, error) {
	raws, err := src.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	ds := New(raws)

	rep := ds.Report()
	if rep.Warnings() {
		slog.WarnContext(ctx, "Dataset normalized with warnings",
			"rows", rep.Rows,
			"unparsable_dates", rep.UnparsableDates,
			"missing_amounts", rep.MissingAmounts,
			"dropped_rows", rep.DroppedRows,
			"invalid_rows", rep.InvalidRows)
	} else {
		slog.InfoContext(ctx, "Dataset normalized", "rows", rep.Rows)
	}
	return ds, nil
}

// Records returns a copy of every record in source order.
func (d *Dataset) Records() []core.FundingRecord {
	return slices.Clone(d.records)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Startups returns the distinct startup names, sorted.
func (d *Dataset) Startups() []string {
	return slices.Clone(d.startups)
}

// Report returns the normalization diagnostics.
func (d *Dataset) Report() Report {
	return d.report
}
