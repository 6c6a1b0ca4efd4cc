package main

import (
	"context"
	"path/filepath"
	"testing"

	"fundboard/internal/core"
	"fundboard/internal/source/csvfile"
	"fundboard/internal/source/memory"
	"fundboard/internal/source/xlsx"
)

func TestExportFormat(t *testing.T) {
	tests := []struct {
		flag, out string
		want      string
		wantErr   bool
	}{
		{"", "funding.csv", "csv", false},
		{"", "Funding.XLSX", "xlsx", false},
		{"", "-", "csv", false},
		{"xlsx", "out.dat", "xlsx", false},
		{"CSV", "out.xlsx", "csv", false},
		{"xlsx", "-", "", true},
		{"json", "out.json", "", true},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.flag, tt.out)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("exportFormat(%q, %q) = %q, %v", tt.flag, tt.out, got, err)
		}
	}
}

func TestExportRecords(t *testing.T) {
	sample := memory.Sample()
	dir := t.TempDir()

	tests := []struct {
		format string
		path   string
		load   func(path string) ([]core.RawRecord, error)
	}{
		{"csv", filepath.Join(dir, "funding.csv"), func(p string) ([]core.RawRecord, error) {
			return csvfile.New(p).LoadRecords(context.Background())
		}},
		{"xlsx", filepath.Join(dir, "funding.xlsx"), func(p string) ([]core.RawRecord, error) {
			return xlsx.New(p, "Rounds").LoadRecords(context.Background())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if err := exportRecords(tt.format, tt.path, "Rounds", sample); err != nil {
				t.Fatalf("exportRecords() error = %v", err)
			}
			got, err := tt.load(tt.path)
			if err != nil {
				t.Fatalf("reading export: %v", err)
			}
			if len(got) != len(sample) {
				t.Fatalf("exported %d rows, want %d", len(got), len(sample))
			}
			if got[0] != sample[0] {
				t.Errorf("first row = %+v, want %+v", got[0], sample[0])
			}
		})
	}
}

func TestImportRecords(t *testing.T) {
	raws := []core.RawRecord{
		{Date: "2019-04-01", Startup: " Ola ", Amount: "10"},
		{Date: "2019-04-02", Startup: "  ", Amount: "5"},
		{Date: "soon", Startup: "Zomato", Amount: ""},
	}
	store := memory.New()

	n, rep, err := importRecords(context.Background(), store, raws)
	if err != nil {
		t.Fatalf("importRecords() error = %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d rows, want 2", n)
	}
	if rep.DroppedRows != 1 || rep.UnparsableDates != 1 || rep.MissingAmounts != 1 {
		t.Errorf("report = %+v", rep)
	}

	stored, _ := store.LoadRecords(context.Background())
	if len(stored) != 2 || stored[0].Startup != "Ola" {
		t.Errorf("stored = %+v, want trimmed startups without the blank row", stored)
	}
}
