package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"fundboard/internal/backend"
	"fundboard/internal/cli"
	"fundboard/internal/core"
	"fundboard/internal/dataset"
	"fundboard/internal/report"
	"fundboard/internal/source"
	"fundboard/internal/source/memory"
	"fundboard/internal/storage"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	db     string
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "copy the configured dataset source into SQLite" }
func (*importCmd) Usage() string {
	return `fundboard-cli import [-db <path>] [-dry-run]

  Reads the dataset from DATA_BACKEND (csv, xlsx, sheets or memory) and
  replaces the contents of the SQLite database with it. Rows without a
  startup are skipped. Serve the result with DATA_BACKEND=sqlite.
  With -dry-run the rows are loaded into memory and reported, and the
  database is left untouched.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.db, "db", "", "SQLite database path (default: SQLITE_DB_PATH)")
	f.BoolVar(&c.dryRun, "dry-run", false, "load and report without writing the database")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("loading configuration", err)
	}
	if cfg.DataBackend == string(backend.SQLiteBackend) {
		fmt.Fprintln(os.Stderr, "Error: DATA_BACKEND is sqlite; choose the source to import from")
		return subcommands.ExitUsageError
	}
	target := c.db
	if target == "" {
		target = cfg.SQLiteDBPath
	}

	res, err := cli.OpenSource(ctx, slog.Default(), cfg)
	if err != nil {
		return fail("opening source", err)
	}
	defer res.Close()

	raws, err := res.Source.LoadRecords(ctx)
	if err != nil {
		return fail("reading source", err)
	}
	if c.dryRun {
		n, rep, err := importRecords(ctx, memory.New(), raws)
		if err != nil {
			return fail("importing records", err)
		}
		printMarkdown(report.Import(res.Origin, "memory (dry run)", n, rep))
		return subcommands.ExitSuccess
	}

	repo, err := storage.NewSQLiteRepository(target)
	if err != nil {
		return fail("opening database", err)
	}
	defer repo.Close()

	n, rep, err := importRecords(ctx, repo.Importer(res.Origin), raws)
	if err != nil {
		return fail("importing records", err)
	}
	stored, err := repo.CountRecords(ctx)
	if err != nil {
		return fail("verifying import", err)
	}
	if stored != n {
		fmt.Fprintf(os.Stderr, "Error: imported %d rows but the database holds %d\n", n, stored)
		return subcommands.ExitFailure
	}

	md := report.Import(res.Origin, target, n, rep)
	if imp, ok, err := repo.LastImport(ctx); err == nil && ok {
		md += fmt.Sprintf("\nLogged as import #%d at %s.\n", imp.ID, imp.ImportedAt.Format(time.RFC3339))
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// importRecords writes the rows that carry a startup to w and returns how
// many were written along with the normalization report of all rows.
func importRecords(ctx context.Context, w source.RecordWriter, raws []core.RawRecord) (int, dataset.Report, error) {
	rep := dataset.New(raws).Report()

	kept := make([]core.RawRecord, 0, len(raws))
	for _, r := range raws {
		if strings.TrimSpace(r.Startup) == "" {
			continue
		}
		r.Startup = strings.TrimSpace(r.Startup)
		kept = append(kept, r)
	}

	n, err := w.ReplaceRecords(ctx, kept)
	if err != nil {
		return 0, rep, err
	}
	return n, rep, nil
}
