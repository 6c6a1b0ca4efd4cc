// Package core provides amount parsing and display utilities.
//
// Amounts are kept as exact decimals in crore; display goes through go-money
// so grouping and the rupee symbol follow the INR conventions.
package core

import (
	"errors"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a dataset amount cell to an Amount.
//
// Thousands separators and surrounding spaces are ignored. Empty cells,
// placeholders such as "unknown" or "N/A", and non-numeric text yield a
// missing Amount with ErrInvalidAmount. Negative values are rejected.
//
// Examples:
//
//	ParseAmount("12.5")    -> 12.5, nil
//	ParseAmount("1,200")   -> 1200, nil
//	ParseAmount("")        -> missing, ErrInvalidAmount
//	ParseAmount("-3")      -> missing, ErrNegativeAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}
	return KnownAmount(d), nil
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatCrore renders an amount in crore for display, e.g. "₹1,250.50 Cr".
func FormatCrore(d decimal.Decimal) string {
	paise := d.Shift(2).Round(0).IntPart()
	return money.New(paise, money.INR).Display() + " " + UnitCrore
}

// String renders the amount, or "-" when it is missing.
func (a Amount) String() string {
	if !a.Valid {
		return "-"
	}
	return FormatCrore(a.Value)
}

// MarshalJSON encodes a missing amount as null and a known one like decimal.Decimal.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return a.Value.MarshalJSON()
}
