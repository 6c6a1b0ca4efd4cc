package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fundboard/internal/config"
	"fundboard/internal/source/csvfile"
	"fundboard/internal/source/memory"
	"fundboard/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("FromAppConfig(nil) should fail")
	}

	_, err := FromAppConfig(&config.Config{DataBackend: "parquet"})
	if err == nil {
		t.Error("FromAppConfig() should reject unknown backends")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:         "xlsx",
		DatasetPath:         "funding.xlsx",
		XLSXSheet:           "Data",
		GoogleSheetRange:    "Funding!A:I",
		GoogleSpreadsheetID: "abc",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != XLSXBackend || cfg.DatasetPath != "funding.xlsx" || cfg.XLSXSheet != "Data" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"csv with path", Config{Type: CSVBackend, DatasetPath: "a.csv"}, false},
		{"csv without path", Config{Type: CSVBackend}, true},
		{"xlsx without path", Config{Type: XLSXBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"unknown", Config{Type: "parquet"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 5 || got[0] != "csv" || got[4] != "memory" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}

func TestFactory_Memory(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	records, err := res.Source.LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if len(records) != len(memory.Sample()) {
		t.Errorf("records = %d, want %d", len(records), len(memory.Sample()))
	}
	if res.Origin != "memory:sample" {
		t.Errorf("Origin = %q", res.Origin)
	}
}

func TestFactory_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funding.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := csvfile.Write(f, memory.Sample()[:3]); err != nil {
		t.Fatal(err)
	}
	f.Close()

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: CSVBackend, DatasetPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	records, err := res.Source.LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if len(records) != 3 || records[0].Startup != "BYJU'S" {
		t.Errorf("records = %+v", records)
	}
}

func TestFactory_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fundboard.db")

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	repo, ok := res.Source.(*storage.SQLiteRepository)
	if !ok {
		t.Fatalf("Source = %T, want *storage.SQLiteRepository", res.Source)
	}
	if _, err := repo.ImportRecords(context.Background(), "test", memory.Sample()); err != nil {
		t.Fatalf("ImportRecords() error = %v", err)
	}
	records, err := res.Source.LoadRecords(context.Background())
	if err != nil || len(records) != len(memory.Sample()) {
		t.Errorf("LoadRecords() = %d records, %v", len(records), err)
	}
}

func TestFactory_InvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: CSVBackend}); err == nil {
		t.Error("CreateBackend() should fail without a dataset path")
	}
}
