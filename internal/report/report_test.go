package report

import (
	"context"
	"strings"
	"testing"

	"fundboard/internal/aggregate"
	"fundboard/internal/core"
	"fundboard/internal/dataset"
	"fundboard/internal/services"
	"fundboard/internal/source/memory"
)

func sampleService() *services.QueryService {
	return services.NewQueryService(dataset.New(memory.Sample()))
}

func assertContains(t *testing.T, md string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(md, p) {
			t.Errorf("markdown missing %q:\n%s", p, md)
		}
	}
}

func TestOverview(t *testing.T) {
	ov := sampleService().Overall(context.Background(), aggregate.MetricSum)
	md := Overview(ov)

	assertContains(t, md,
		"# Overall analysis",
		"| Total invested | ₹24,732.80 Cr |",
		"| Largest single funding | ₹10,000.00 Cr (Flipkart) |",
		"## Month on month (sum)",
		"| 8-2017 | ₹10,000.00 Cr |",
		"| 2017 | Flipkart | SoftBank Group | ₹10,000.00 Cr |",
	)
}

func TestOverview_CountTrend(t *testing.T) {
	ov := sampleService().Overall(context.Background(), aggregate.MetricCount)
	md := Overview(ov)

	assertContains(t, md, "## Month on month (count)", "| 1-2020 | 4 |")
}

func TestOverview_Empty(t *testing.T) {
	md := Overview(core.Overview{Trend: core.Trend{Metric: "sum", Unit: core.UnitCrore}})

	assertContains(t, md,
		"| Largest single funding | - |",
		"No records with a known date.",
		"No funding with a known date and amount.",
	)
}

func TestStartup(t *testing.T) {
	p, err := sampleService().Startup(context.Background(), "Ola")
	if err != nil {
		t.Fatal(err)
	}
	md := Startup(p)

	assertContains(t, md,
		"# Ola",
		"| City | Bengaluru |",
		"| Funding rounds | 2 |",
		"- Tencent Holdings\n- SoftBank Group\n- Sequoia Capital India\n",
	)
}

func TestInvestor(t *testing.T) {
	p, err := sampleService().Investor(context.Background(), "SoftBank Group", "")
	if err != nil {
		t.Fatal(err)
	}
	md := Investor(p)

	assertContains(t, md,
		"4 investments (exact match).",
		"| 2018-11-19 | Ola | Transportation | Bengaluru | Series J | ₹1,600.00 Cr |",
		"## Biggest investments",
		"| Startup | Amount |",
		"| Flipkart | ₹10,000.00 Cr |",
		"## Cities",
		"| Noida | ₹9,000.00 Cr |",
	)
}

func TestInvestor_MissingAmountAndEmptyBreakdown(t *testing.T) {
	md := Investor(core.InvestorProfile{
		Name:    "Accel",
		Match:   "exact",
		Records: 1,
		Recent:  []core.Investment{{Date: "2015-10-12", Startup: "Swiggy"}},
	})

	assertContains(t, md, "| 2015-10-12 | Swiggy | - | - | - | - |", "No amounts recorded.")
}

func TestCellEscaping(t *testing.T) {
	md := Startup(core.StartupProfile{Name: "A|B", City: "x|y"})
	assertContains(t, md, `| City | x\|y |`, "None recorded.")
}

func TestNamesAndImport(t *testing.T) {
	assertContains(t, Names("Startups", []string{"Ola", "Paytm"}), "# Startups", "2 entries.", "- Ola\n- Paytm\n")
	assertContains(t, Names("Investors", nil), "None.")

	md := Import("csv:data.csv", "data/fundboard.db", 10, dataset.Report{Rows: 10, MissingAmounts: 1, InvalidRows: 2})
	assertContains(t, md, "Imported **10** rows from `csv:data.csv` into `data/fundboard.db`.", "| Missing amounts | 1 |", "| Dropped (invalid) | 2 |")
}

func TestHeading(t *testing.T) {
	if got := heading("vertical"); got != "Vertical" {
		t.Errorf("heading() = %q", got)
	}
	if got := heading(""); got != "Key" {
		t.Errorf("heading(\"\") = %q", got)
	}
}
