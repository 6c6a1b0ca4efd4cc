package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fundboard/internal/source/csvfile"
	"fundboard/internal/source/google"
	"fundboard/internal/source/memory"
	"fundboard/internal/source/xlsx"
	"fundboard/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVBackend(config)
	case XLSXBackend:
		return f.createXLSXBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(config Config) (*BackendResult, error) {
	f.logger.Info("Initialized CSV backend", "path", config.DatasetPath)

	return &BackendResult{
		Source: csvfile.New(config.DatasetPath),
		Origin: "csv:" + config.DatasetPath,
	}, nil
}

func (f *DefaultFactory) createXLSXBackend(config Config) (*BackendResult, error) {
	f.logger.Info("Initialized XLSX backend", "path", config.DatasetPath, "sheet", config.XLSXSheet)

	return &BackendResult{
		Source: xlsx.New(config.DatasetPath, config.XLSXSheet),
		Origin: "xlsx:" + config.DatasetPath,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:  sqliteRepo,
		Origin:  "sqlite:" + config.SQLiteDBPath,
		Cleanup: sqliteRepo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetRange)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"range", config.GoogleSheetRange)

	return &BackendResult{
		Source: cli,
		Origin: "sheets:" + config.GoogleSpreadsheetID,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend with sample data")

	return &BackendResult{
		Source: memory.NewSample(),
		Origin: "memory:sample",
	}, nil
}
