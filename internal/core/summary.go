package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

// StartupAmount pairs a startup with an amount.
type StartupAmount struct {
	Startup string          `json:"startup"`
	Amount  decimal.Decimal `json:"amount"`
}

// TrendPoint is one (year, month) bucket of a monthly trend.
type TrendPoint struct {
	Year  int             `json:"year"`
	Month int             `json:"month"` // 1-12
	Label string          `json:"label"` // "M-YYYY"
	Value decimal.Decimal `json:"value"`
}

// Trend is a month-over-month series. Unit is "Cr" for sums and "records" for counts.
type Trend struct {
	Metric string       `json:"metric"`
	Unit   string       `json:"unit"`
	Points []TrendPoint `json:"points"`
}

// YearTop is one record holding the largest amount of its year.
type YearTop struct {
	Year      int             `json:"year"`
	Startup   string          `json:"startup"`
	Investors string          `json:"investors"`
	Amount    decimal.Decimal `json:"amount"`
}

// YearStartup is the startup projection of a YearTop.
type YearStartup struct {
	Startup string          `json:"startup"`
	Amount  decimal.Decimal `json:"amount"`
	Year    int             `json:"year"`
}

// YearInvestors is the investor projection of a YearTop.
type YearInvestors struct {
	Investors string          `json:"investors"`
	Amount    decimal.Decimal `json:"amount"`
	Year      int             `json:"year"`
}

// KeyAmount is one row of a grouped sum.
type KeyAmount struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is a sum of amounts grouped by a record field.
type Breakdown struct {
	Field string      `json:"field"`
	Unit  string      `json:"unit"`
	Rows  []KeyAmount `json:"rows"`
}

// Investment is a single funding record as listed on an investor profile.
type Investment struct {
	Date     string `json:"date"`
	Startup  string `json:"startup"`
	Vertical string `json:"vertical"`
	City     string `json:"city"`
	Round    string `json:"round"`
	Amount   Amount `json:"amount"`
}

// Overview is the result bundle of the overall analysis.
type Overview struct {
	Total          decimal.Decimal `json:"total"`
	MaxFunding     *StartupAmount  `json:"max_funding"` // nil when there is no data
	AverageFunding decimal.Decimal `json:"average_funding"`
	Unit           string          `json:"unit"`
	Trend          Trend           `json:"trend"`
	TopPerYear     []YearTop       `json:"top_per_year"`
	TopStartups    []YearStartup   `json:"top_startups"`
	TopInvestors   []YearInvestors `json:"top_investors"`
}

// StartupProfile is the result bundle of a startup lookup.
type StartupProfile struct {
	Name          string   `json:"name"`
	Vertical      string   `json:"vertical"`
	Subvertical   string   `json:"subvertical"`
	City          string   `json:"city"`
	Investors     string   `json:"investors"`
	InvestorNames []string `json:"investor_names"`
	Rounds        int      `json:"rounds"`
}

// InvestorProfile is the result bundle of an investor lookup.
type InvestorProfile struct {
	Name    string       `json:"name"`
	Match   string       `json:"match"`
	Records int          `json:"records"`
	Recent  []Investment `json:"recent"`
	Biggest Breakdown    `json:"biggest"`
	Sectors Breakdown    `json:"sectors"`
	Years   Breakdown    `json:"years"`
	Cities  Breakdown    `json:"cities"`
}

// SortedByAmount returns a copy of b with rows in descending amount order.
// Equal amounts keep their key order.
func (b Breakdown) SortedByAmount() Breakdown {
	rows := slices.Clone(b.Rows)
	slices.SortStableFunc(rows, func(x, y KeyAmount) int {
		return y.Amount.Cmp(x.Amount)
	})
	b.Rows = rows
	return b
}

// Top returns a copy of b keeping at most n rows.
func (b Breakdown) Top(n int) Breakdown {
	if n >= 0 && len(b.Rows) > n {
		b.Rows = slices.Clone(b.Rows[:n])
	}
	return b
}
