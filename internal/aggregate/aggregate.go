// Package aggregate implements the grouping and summarizing operations of the
// dashboard. Every function is pure: it reads the records it is given and
// returns a fresh result. Missing amounts are skipped by sums, maxima and
// means; only MetricCount counts records regardless of their amount.
package aggregate

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"fundboard/internal/core"
)

// Metric selects how MonthlyTrend reduces a (year, month) group.
type Metric string

const (
	MetricSum   Metric = "sum"
	MetricCount Metric = "count"
)

// ParseMetric accepts "sum"/"total" and "count".
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "sum", "total":
		return MetricSum, nil
	case "count":
		return MetricCount, nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Field names a record field usable as a GroupSum key.
type Field string

const (
	FieldStartup     Field = "startup"
	FieldVertical    Field = "vertical"
	FieldSubvertical Field = "subvertical"
	FieldCity        Field = "city"
	FieldYear        Field = "year"
	FieldRound       Field = "round"
)

// key extracts the grouping key. An empty key means "missing".
func (f Field) key(r core.FundingRecord) string {
	switch f {
	case FieldStartup:
		return r.Startup
	case FieldVertical:
		return r.Vertical
	case FieldSubvertical:
		return r.Subvertical
	case FieldCity:
		return r.City
	case FieldYear:
		if r.Year == 0 {
			return ""
		}
		return strconv.Itoa(r.Year)
	case FieldRound:
		return r.Round
	}
	return ""
}

// TotalAmount sums every known amount, rounded to 2 decimals.
func TotalAmount(rs []core.FundingRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rs {
		if r.Amount.Valid {
			total = total.Add(r.Amount.Value)
		}
	}
	return core.Round2(total)
}

// MaxSingleFunding returns the largest single amount and its startup. It takes
// the max per startup, then the max across startups; equal maxima resolve to
// the alphabetically first startup. The bool is false when no record has a
// known amount.
func MaxSingleFunding(rs []core.FundingRecord) (core.StartupAmount, bool) {
	perStartup := make(map[string]decimal.Decimal)
	for _, r := range rs {
		if !r.Amount.Valid {
			continue
		}
		if cur, ok := perStartup[r.Startup]; !ok || r.Amount.Value.GreaterThan(cur) {
			perStartup[r.Startup] = r.Amount.Value
		}
	}

	var best core.StartupAmount
	found := false
	for startup, amount := range perStartup {
		switch {
		case !found,
			amount.GreaterThan(best.Amount),
			amount.Equal(best.Amount) && startup < best.Startup:
			best = core.StartupAmount{Startup: startup, Amount: amount}
			found = true
		}
	}
	return best, found
}

// AverageFundingPerStartup sums known amounts per startup and averages those
// sums, rounded to 2 decimals. Startups without any known amount do not take
// part in the mean. Returns zero when there is nothing to average.
func AverageFundingPerStartup(rs []core.FundingRecord) decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rs {
		if !r.Amount.Valid {
			continue
		}
		sums[r.Startup] = sums[r.Startup].Add(r.Amount.Value)
	}
	if len(sums) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, s := range sums {
		total = total.Add(s)
	}
	return core.Round2(total.Div(decimal.NewFromInt(int64(len(sums)))))
}

type period struct{ year, month int }

// MonthlyTrend groups records by (year, month) and reduces each group by the
// metric. Records without a period are left out. Points are chronological.
func MonthlyTrend(rs []core.FundingRecord, m Metric) core.Trend {
	values := make(map[period]decimal.Decimal)
	for _, r := range rs {
		if !r.HasPeriod() {
			continue
		}
		p := period{r.Year, r.Month}
		v := values[p]
		switch m {
		case MetricCount:
			v = v.Add(decimal.NewFromInt(1))
		default:
			if r.Amount.Valid {
				v = v.Add(r.Amount.Value)
			}
		}
		values[p] = v
	}

	points := make([]core.TrendPoint, 0, len(values))
	for p, v := range values {
		points = append(points, core.TrendPoint{
			Year:  p.year,
			Month: p.month,
			Label: fmt.Sprintf("%d-%d", p.month, p.year),
			Value: v,
		})
	}
	slices.SortFunc(points, func(a, b core.TrendPoint) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})

	trend := core.Trend{Metric: string(MetricSum), Unit: core.UnitCrore, Points: points}
	if m == MetricCount {
		trend.Metric, trend.Unit = string(MetricCount), "records"
	}
	return trend
}

// TopFundedPerYear returns, for each year, every record whose amount equals
// that year's maximum. Ties are all kept, in record order; years ascend.
// Records without a year or a known amount are ignored.
func TopFundedPerYear(rs []core.FundingRecord) []core.YearTop {
	maxByYear := make(map[int]decimal.Decimal)
	for _, r := range rs {
		if r.Year == 0 || !r.Amount.Valid {
			continue
		}
		if cur, ok := maxByYear[r.Year]; !ok || r.Amount.Value.GreaterThan(cur) {
			maxByYear[r.Year] = r.Amount.Value
		}
	}

	var tops []core.YearTop
	for _, r := range rs {
		if r.Year == 0 || !r.Amount.Valid {
			continue
		}
		if r.Amount.Value.Equal(maxByYear[r.Year]) {
			tops = append(tops, core.YearTop{
				Year:      r.Year,
				Startup:   r.Startup,
				Investors: r.Investors,
				Amount:    r.Amount.Value,
			})
		}
	}
	slices.SortStableFunc(tops, func(a, b core.YearTop) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return tops
}

// StartupView projects top-per-year rows onto (startup, amount, year).
func StartupView(tops []core.YearTop) []core.YearStartup {
	out := make([]core.YearStartup, len(tops))
	for i, t := range tops {
		out[i] = core.YearStartup{Startup: t.Startup, Amount: t.Amount, Year: t.Year}
	}
	return out
}

// InvestorView projects top-per-year rows onto (investors, amount, year).
func InvestorView(tops []core.YearTop) []core.YearInvestors {
	out := make([]core.YearInvestors, len(tops))
	for i, t := range tops {
		out[i] = core.YearInvestors{Investors: t.Investors, Amount: t.Amount, Year: t.Year}
	}
	return out
}

// GroupSum sums known amounts grouped by field. Records with a missing key or
// amount are skipped. Rows are sorted by key, numerically for FieldYear.
func GroupSum(rs []core.FundingRecord, field Field) core.Breakdown {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rs {
		k := field.key(r)
		if k == "" || !r.Amount.Valid {
			continue
		}
		sums[k] = sums[k].Add(r.Amount.Value)
	}

	rows := make([]core.KeyAmount, 0, len(sums))
	for k, v := range sums {
		rows = append(rows, core.KeyAmount{Key: k, Amount: v})
	}
	if field == FieldYear {
		slices.SortFunc(rows, func(a, b core.KeyAmount) int {
			ya, _ := strconv.Atoi(a.Key)
			yb, _ := strconv.Atoi(b.Key)
			return cmp.Compare(ya, yb)
		})
	} else {
		slices.SortFunc(rows, func(a, b core.KeyAmount) int {
			return cmp.Compare(a.Key, b.Key)
		})
	}
	return core.Breakdown{Field: string(field), Unit: core.UnitCrore, Rows: rows}
}
