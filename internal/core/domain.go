package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the funding dataset, in canonical order.
const (
	ColumnDate        = "date"
	ColumnStartup     = "startup"
	ColumnVertical    = "vertical"
	ColumnSubvertical = "subvertical"
	ColumnCity        = "city"
	ColumnInvestors   = "investors"
	ColumnRound       = "round"
	ColumnAmount      = "amount"
)

// Columns lists every column a dataset must provide.
var Columns = []string{
	ColumnDate,
	ColumnStartup,
	ColumnVertical,
	ColumnSubvertical,
	ColumnCity,
	ColumnInvestors,
	ColumnRound,
	ColumnAmount,
}

// UnitCrore is the magnitude every amount is expressed in.
const UnitCrore = "Cr"

type (
	// Date is an optional calendar date. The zero value means "unknown".
	Date struct {
		time.Time
	}

	// Amount is an optional non-negative funding amount in crore.
	Amount struct {
		Value decimal.Decimal
		Valid bool
	}

	// RawRecord is one dataset row exactly as a source delivered it.
	RawRecord struct {
		Date        string
		Startup     string
		Vertical    string
		Subvertical string
		City        string
		Investors   string
		Round       string
		Amount      string
	}

	// FundingRecord is one normalized funding event.
	FundingRecord struct {
		Date        Date
		Year        int // 0 when Date is unknown
		Month       int // 1-12, 0 when Date is unknown
		Startup     string
		Vertical    string
		Subvertical string
		City        string
		Investors   string // comma separated investor names
		Round       string
		Amount      Amount
	}
)

var (
	ErrEmptyStartup   = errors.New("empty startup")
	ErrInvalidPeriod  = errors.New("year and month must both be set or both be absent")
	ErrNegativeAmount = errors.New("negative amount")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is unknown
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" when unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// KnownAmount returns a valid Amount holding v.
func KnownAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Valid: true}
}

// HasPeriod reports whether the record carries a derived year and month.
func (r FundingRecord) HasPeriod() bool {
	return r.Year != 0 && r.Month != 0
}

// Validate checks the record invariants.
func (r FundingRecord) Validate() error {
	if strings.TrimSpace(r.Startup) == "" {
		return ErrEmptyStartup
	}
	if (r.Year == 0) != (r.Month == 0) {
		return ErrInvalidPeriod
	}
	if !r.Date.IsEmpty() && (r.Year != r.Date.Year() || r.Month != int(r.Date.Month())) {
		return ErrInvalidPeriod
	}
	if r.Date.IsEmpty() && r.Year != 0 {
		return ErrInvalidPeriod
	}
	if r.Amount.Valid && r.Amount.Value.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// SplitInvestors splits a comma separated investors field into trimmed,
// non-empty names, in field order.
func SplitInvestors(field string) []string {
	var names []string
	for _, part := range strings.Split(field, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// InvestorNames returns the record's investors as individual names.
func (r FundingRecord) InvestorNames() []string {
	return SplitInvestors(r.Investors)
}

// Field returns the value of a dataset column by name. Unknown names yield "".
func (r RawRecord) Field(column string) string {
	switch column {
	case ColumnDate:
		return r.Date
	case ColumnStartup:
		return r.Startup
	case ColumnVertical:
		return r.Vertical
	case ColumnSubvertical:
		return r.Subvertical
	case ColumnCity:
		return r.City
	case ColumnInvestors:
		return r.Investors
	case ColumnRound:
		return r.Round
	case ColumnAmount:
		return r.Amount
	}
	return ""
}

// Set assigns a dataset column by name. Unknown names are ignored.
func (r *RawRecord) Set(column, value string) {
	switch column {
	case ColumnDate:
		r.Date = value
	case ColumnStartup:
		r.Startup = value
	case ColumnVertical:
		r.Vertical = value
	case ColumnSubvertical:
		r.Subvertical = value
	case ColumnCity:
		r.City = value
	case ColumnInvestors:
		r.Investors = value
	case ColumnRound:
		r.Round = value
	case ColumnAmount:
		r.Amount = value
	}
}
