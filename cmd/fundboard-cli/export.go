package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/subcommands"

	"fundboard/internal/cli"
	"fundboard/internal/core"
	"fundboard/internal/source/csvfile"
	"fundboard/internal/source/xlsx"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	format string
	sheet  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the configured dataset to a CSV or XLSX file" }
func (*exportCmd) Usage() string {
	return `fundboard-cli export [-format csv|xlsx] [-sheet <name>] <output>

  Reads the raw rows from DATA_BACKEND and writes them with the canonical
  column header. Use "-" as output to print CSV on stdout. Combined with
  DATA_BACKEND=sqlite this turns an imported database back into a file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "csv or xlsx (default: from the output extension)")
	f.StringVar(&c.sheet, "sheet", "Funding", "sheet name for xlsx output")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	out := f.Arg(0)
	format, err := exportFormat(c.format, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail("loading configuration", err)
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

	if out == "-" {
		if err := csvfile.Write(os.Stdout, raws); err != nil {
			return fail("writing csv", err)
		}
		return subcommands.ExitSuccess
	}
	if err := exportRecords(format, out, c.sheet, raws); err != nil {
		return fail("exporting records", err)
	}
	printMarkdown(fmt.Sprintf("# Export\n\nWrote **%d** rows from `%s` to `%s`.\n", len(raws), res.Origin, out))
	return subcommands.ExitSuccess
}

// exportFormat picks the output format from the flag, falling back to the
// output file extension. Stdout is always CSV.
func exportFormat(flagValue, out string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = "csv"
		if strings.HasSuffix(strings.ToLower(out), ".xlsx") {
			format = "xlsx"
		}
	}
	switch format {
	case "csv":
		return format, nil
	case "xlsx":
		if out == "-" {
			return "", fmt.Errorf("xlsx output needs a file path")
		}
		return format, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or xlsx)", flagValue)
}

// exportRecords writes raws to path in the given format.
func exportRecords(format, path, sheet string, raws []core.RawRecord) error {
	if format == "xlsx" {
		return xlsx.Write(path, sheet, raws)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csvfile.Write(f, raws); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
