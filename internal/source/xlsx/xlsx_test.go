package xlsx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"fundboard/internal/core"
)

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funding.xlsx")
	in := []core.RawRecord{
		{Date: "2015-01-02", Startup: "X", Vertical: "Fintech", City: "Mumbai", Investors: "A, B", Round: "Seed", Amount: "10"},
		{Date: "2016-05-02", Startup: "Y", Investors: "C", Amount: "25"},
	}
	if err := Write(path, "Funding", in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := New(path, "").LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Startup != "X" || got[0].Investors != "A, B" || got[1].Amount != "25" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestReadMissingColumns(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetRow("Sheet1", "A1", &[]interface{}{"date", "startup"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	_, _, err := Read(f, "")
	if !errors.Is(err, core.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.xlsx"), "").LoadRecords(context.Background())
	var le *core.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}
