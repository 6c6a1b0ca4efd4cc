package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"fundboard/internal/cli"
	"fundboard/internal/config"
	"fundboard/internal/core"
	"fundboard/internal/investors"
	"fundboard/internal/services"
)

var (
	plain     = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal")
	wrapWidth = flag.Int("width", 100, "Word wrap width of the rendered output")
)

// loadConfig reads and validates the environment configuration.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openService loads the configured dataset and wraps it in a QueryService.
func openService(ctx context.Context) (*services.QueryService, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	match, err := investors.ParseMatchMode(cfg.InvestorMatch)
	if err != nil {
		return nil, err
	}
	ds, err := cli.LoadDataset(ctx, slog.Default(), cfg)
	if err != nil {
		return nil, err
	}
	return services.NewQueryService(ds, services.WithDefaultMatch(match)), nil
}

// printMarkdown renders md for the terminal with glamour. Rendering errors
// fall back to the raw markdown.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(*wrapWidth),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail reports err on stderr and maps it to an exit status.
func fail(what string, err error) subcommands.ExitStatus {
	if errors.Is(err, core.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}
