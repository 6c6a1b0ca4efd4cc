package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fundboard/internal/core"
	"fundboard/internal/source"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	path    string
}

var (
	_ source.RecordSource = (*SQLiteRepository)(nil)
	_ source.RecordWriter = importer{}
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRecords implements source.RecordSource
func (r *SQLiteRepository) LoadRecords(ctx context.Context) ([]core.RawRecord, error) {
	rows, err := r.queries.ListFundingRounds(ctx)
	if err != nil {
		return nil, &core.LoadError{Source: "sqlite:" + r.path, Err: fmt.Errorf("list funding rounds: %w", err)}
	}

	records := make([]core.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = core.RawRecord{
			Date:        row.Date,
			Startup:     row.Startup,
			Vertical:    row.Vertical,
			Subvertical: row.Subvertical,
			City:        row.City,
			Investors:   row.Investors,
			Round:       row.Round,
			Amount:      row.Amount,
		}
	}

	slog.InfoContext(ctx, "Dataset read from SQLite", "path", r.path, "rows", len(records))
	return records, nil
}

// importer writes through ImportRecords under a fixed origin.
type importer struct {
	repo   *SQLiteRepository
	origin string
}

func (i importer) ReplaceRecords(ctx context.Context, records []core.RawRecord) (int, error) {
	return i.repo.ImportRecords(ctx, i.origin, records)
}

// Importer returns a source.RecordWriter that replaces the stored dataset in a
// single transaction and logs the import under origin. An empty origin
// replaces without logging.
func (r *SQLiteRepository) Importer(origin string) source.RecordWriter {
	return importer{repo: r, origin: origin}
}

// ImportRecords replaces the dataset and records the import in the imports log.
func (r *SQLiteRepository) ImportRecords(ctx context.Context, origin string, records []core.RawRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllFundingRounds(ctx); err != nil {
		return 0, fmt.Errorf("clear funding rounds: %w", err)
	}
	for i, rec := range records {
		if rec.Startup == "" {
			return 0, fmt.Errorf("record %d: %w", i, core.ErrEmptyStartup)
		}
		if err := q.CreateFundingRound(ctx, CreateFundingRoundParams{
			Date:        rec.Date,
			Startup:     rec.Startup,
			Vertical:    rec.Vertical,
			Subvertical: rec.Subvertical,
			City:        rec.City,
			Investors:   rec.Investors,
			Round:       rec.Round,
			Amount:      rec.Amount,
		}); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	if origin != "" {
		if err := q.CreateImport(ctx, origin, int64(len(records))); err != nil {
			return 0, fmt.Errorf("log import: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Dataset imported into SQLite", "path", r.path, "rows", len(records), "origin", origin)
	return len(records), nil
}

// CountRecords returns the number of stored funding rounds.
func (r *SQLiteRepository) CountRecords(ctx context.Context) (int, error) {
	n, err := r.queries.CountFundingRounds(ctx)
	if err != nil {
		return 0, fmt.Errorf("count funding rounds: %w", err)
	}
	return int(n), nil
}

// LastImport returns the most recent logged import, or false when none was logged.
func (r *SQLiteRepository) LastImport(ctx context.Context) (Import, bool, error) {
	imp, err := r.queries.GetLastImport(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, false, nil
	}
	if err != nil {
		return Import{}, false, fmt.Errorf("get last import: %w", err)
	}
	return imp, true, nil
}
