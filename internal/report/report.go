// Package report renders query results as markdown for terminal display.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fundboard/internal/core"
	"fundboard/internal/dataset"
)

// renderer accumulates markdown.
type renderer struct {
	*strings.Builder
}

func newRenderer() *renderer {
	return &renderer{Builder: &strings.Builder{}}
}

// Printf formats according to a format specifier and writes to the buffer.
func (r *renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

// cell escapes text for use inside a markdown table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// heading capitalizes a field name for a table header.
func heading(field string) string {
	if field == "" {
		return "Key"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

func crore(d decimal.Decimal) string {
	return core.FormatCrore(d)
}

// Overview renders the market-wide figures.
func Overview(ov core.Overview) string {
	r := newRenderer()
	r.Printf("# Overall analysis\n\n")

	r.Printf("| Figure | Value |\n")
	r.Printf("|:---|---:|\n")
	r.Printf("| Total invested | %s |\n", crore(ov.Total))
	if ov.MaxFunding != nil {
		r.Printf("| Largest single funding | %s (%s) |\n", crore(ov.MaxFunding.Amount), cell(ov.MaxFunding.Startup))
	} else {
		r.Printf("| Largest single funding | - |\n")
	}
	r.Printf("| Average funding per startup | %s |\n", crore(ov.AverageFunding))
	r.Printf("\n")

	r.renderTrend(ov.Trend)

	r.Printf("## Top funded startup per year\n\n")
	if len(ov.TopPerYear) == 0 {
		r.Printf("No funding with a known date and amount.\n\n")
		return r.String()
	}
	r.Printf("| Year | Startup | Investors | Amount |\n")
	r.Printf("|:---|:---|:---|---:|\n")
	for _, t := range ov.TopPerYear {
		r.Printf("| %d | %s | %s | %s |\n", t.Year, cell(t.Startup), cell(t.Investors), crore(t.Amount))
	}
	r.Printf("\n")
	return r.String()
}

func (r *renderer) renderTrend(t core.Trend) {
	r.Printf("## Month on month (%s)\n\n", t.Metric)
	if len(t.Points) == 0 {
		r.Printf("No records with a known date.\n\n")
		return
	}
	r.Printf("| Month | Value |\n")
	r.Printf("|:---|---:|\n")
	for _, p := range t.Points {
		value := p.Value.String()
		if t.Unit == core.UnitCrore {
			value = crore(p.Value)
		}
		r.Printf("| %s | %s |\n", p.Label, value)
	}
	r.Printf("\n")
}

// Startup renders a startup profile.
func Startup(p core.StartupProfile) string {
	r := newRenderer()
	r.Printf("# %s\n\n", p.Name)
	r.Printf("| Field | Value |\n")
	r.Printf("|:---|:---|\n")
	r.Printf("| Industry | %s |\n", cell(p.Vertical))
	r.Printf("| Subindustry | %s |\n", cell(p.Subvertical))
	r.Printf("| City | %s |\n", cell(p.City))
	r.Printf("| Funding rounds | %d |\n", p.Rounds)
	r.Printf("\n")

	r.Printf("## Investors\n\n")
	if len(p.InvestorNames) == 0 {
		r.Printf("None recorded.\n\n")
		return r.String()
	}
	for _, name := range p.InvestorNames {
		r.Printf("- %s\n", name)
	}
	r.Printf("\n")
	return r.String()
}

// Investor renders an investor portfolio.
func Investor(p core.InvestorProfile) string {
	r := newRenderer()
	r.Printf("# %s\n\n", p.Name)
	r.Printf("%d investments (%s match).\n\n", p.Records, p.Match)

	r.Printf("## Most recent investments\n\n")
	r.Printf("| Date | Startup | Industry | City | Round | Amount |\n")
	r.Printf("|:---|:---|:---|:---|:---|---:|\n")
	for _, inv := range p.Recent {
		r.Printf("| %s | %s | %s | %s | %s | %s |\n",
			cell(inv.Date), cell(inv.Startup), cell(inv.Vertical), cell(inv.City), cell(inv.Round), inv.Amount)
	}
	r.Printf("\n")

	r.renderBreakdown("Biggest investments", p.Biggest)
	r.renderBreakdown("Sectors", p.Sectors)
	r.renderBreakdown("Year on year", p.Years)
	r.renderBreakdown("Cities", p.Cities)
	return r.String()
}

func (r *renderer) renderBreakdown(title string, b core.Breakdown) {
	r.Printf("## %s\n\n", title)
	if len(b.Rows) == 0 {
		r.Printf("No amounts recorded.\n\n")
		return
	}
	r.Printf("| %s | Amount |\n", heading(b.Field))
	r.Printf("|:---|---:|\n")
	for _, row := range b.Rows {
		r.Printf("| %s | %s |\n", cell(row.Key), crore(row.Amount))
	}
	r.Printf("\n")
}

// Names renders a titled bullet list.
func Names(title string, names []string) string {
	r := newRenderer()
	r.Printf("# %s\n\n", title)
	if len(names) == 0 {
		r.Printf("None.\n")
		return r.String()
	}
	r.Printf("%d entries.\n\n", len(names))
	for _, n := range names {
		r.Printf("- %s\n", n)
	}
	return r.String()
}

// Import renders the outcome of loading a dataset into storage.
func Import(origin, target string, imported int, rep dataset.Report) string {
	r := newRenderer()
	r.Printf("# Import\n\n")
	r.Printf("Imported **%d** rows from `%s` into `%s`.\n\n", imported, origin, target)
	r.Printf("| Check | Rows |\n")
	r.Printf("|:---|---:|\n")
	r.Printf("| Kept | %d |\n", rep.Rows)
	r.Printf("| Unparsable dates | %d |\n", rep.UnparsableDates)
	r.Printf("| Missing amounts | %d |\n", rep.MissingAmounts)
	r.Printf("| Dropped (no startup) | %d |\n", rep.DroppedRows)
	r.Printf("| Dropped (invalid) | %d |\n", rep.InvalidRows)
	return r.String()
}
