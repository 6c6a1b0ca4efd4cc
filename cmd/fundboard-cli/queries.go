package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"fundboard/internal/aggregate"
	"fundboard/internal/investors"
	"fundboard/internal/report"
)

// overallCmd holds the flags for the 'overall' subcommand.
type overallCmd struct {
	metric string
}

func (*overallCmd) Name() string     { return "overall" }
func (*overallCmd) Synopsis() string { return "display the market-wide funding analysis" }
func (*overallCmd) Usage() string {
	return `fundboard-cli overall [-metric sum|count]

  Displays total and average funding, the largest single funding, the month
  on month trend and the top funded startup of every year.
`
}

func (c *overallCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.metric, "metric", "sum", "Month on month reduction: sum of amounts or count of records")
}

func (c *overallCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	metric, err := aggregate.ParseMetric(c.metric)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	svc, err := openService(ctx)
	if err != nil {
		return fail("loading dataset", err)
	}
	printMarkdown(report.Overview(svc.Overall(ctx, metric)))
	return subcommands.ExitSuccess
}

// startupCmd holds the flags for the 'startup' subcommand.
type startupCmd struct{}

func (*startupCmd) Name() string     { return "startup" }
func (*startupCmd) Synopsis() string { return "display the profile of a startup" }
func (*startupCmd) Usage() string {
	return `fundboard-cli startup <name>

  Displays the industry, city and investors of a startup. The name must
  match the dataset exactly; see 'fundboard-cli startups'.
`
}

func (*startupCmd) SetFlags(*flag.FlagSet) {}

func (*startupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.Join(f.Args(), " ")
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(os.Stderr, "Error: a startup name is required")
		return subcommands.ExitUsageError
	}
	svc, err := openService(ctx)
	if err != nil {
		return fail("loading dataset", err)
	}
	p, err := svc.Startup(ctx, name)
	if err != nil {
		return fail("looking up startup", err)
	}
	printMarkdown(report.Startup(p))
	return subcommands.ExitSuccess
}

// investorCmd holds the flags for the 'investor' subcommand.
type investorCmd struct {
	match string
}

func (*investorCmd) Name() string     { return "investor" }
func (*investorCmd) Synopsis() string { return "display the portfolio of an investor" }
func (*investorCmd) Usage() string {
	return `fundboard-cli investor [-match exact|substring] <name>

  Displays the recent and biggest investments of an investor together with
  sector, year and city breakdowns. Exact matching compares individual
  investor names; substring matching searches the whole investors field.
`
}

func (c *investorCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.match, "match", "", "Investor matching mode (default: INVESTOR_MATCH)")
}

func (c *investorCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.Join(f.Args(), " ")
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(os.Stderr, "Error: an investor name is required")
		return subcommands.ExitUsageError
	}
	var mode investors.MatchMode
	if c.match != "" {
		m, err := investors.ParseMatchMode(c.match)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		mode = m
	}

	svc, err := openService(ctx)
	if err != nil {
		return fail("loading dataset", err)
	}
	p, err := svc.Investor(ctx, name, mode)
	if err != nil {
		return fail("looking up investor", err)
	}
	printMarkdown(report.Investor(p))
	return subcommands.ExitSuccess
}

type startupsCmd struct{}

func (*startupsCmd) Name() string     { return "startups" }
func (*startupsCmd) Synopsis() string { return "list every startup in the dataset" }
func (*startupsCmd) Usage() string {
	return "fundboard-cli startups\n"
}
func (*startupsCmd) SetFlags(*flag.FlagSet) {}

func (*startupsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := openService(ctx)
	if err != nil {
		return fail("loading dataset", err)
	}
	printMarkdown(report.Names("Startups", svc.StartupNames()))
	return subcommands.ExitSuccess
}

type investorsCmd struct{}

func (*investorsCmd) Name() string     { return "investors" }
func (*investorsCmd) Synopsis() string { return "list every individual investor in the dataset" }
func (*investorsCmd) Usage() string {
	return "fundboard-cli investors\n"
}
func (*investorsCmd) SetFlags(*flag.FlagSet) {}

func (*investorsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := openService(ctx)
	if err != nil {
		return fail("loading dataset", err)
	}
	printMarkdown(report.Names("Investors", svc.InvestorNames()))
	return subcommands.ExitSuccess
}
