package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"fundboard/internal/cli"
	applog "fundboard/internal/log"
)

func main() {
	cli.LoadEnvFile()

	// Logs go to stderr so they never mix with the rendered report.
	level, err := applog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || os.Getenv("LOG_LEVEL") == "" {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&overallCmd{}, "queries")
	commander.Register(&startupCmd{}, "queries")
	commander.Register(&investorCmd{}, "queries")
	commander.Register(&startupsCmd{}, "lists")
	commander.Register(&investorsCmd{}, "lists")
	commander.Register(&importCmd{}, "data")
	commander.Register(&exportCmd{}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
