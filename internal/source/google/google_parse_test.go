package google

import (
	"errors"
	"testing"

	"fundboard/internal/core"
)

func TestParseValues(t *testing.T) {
	values := [][]interface{}{
		{"Date", "Startup", "Vertical", "SubVertical", "City", "Investors", "Round", "Amount"},
		{"2019-08-01", "Flipkart", "E-Commerce", "Online Marketplace", "Bengaluru", "Walmart", "Private Equity", 1500.5},
		{"2019-08-02", "Zomato", "Food"},
	}
	got, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Amount != "1500.5" || got[0].Subvertical != "Online Marketplace" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].Investors != "" || got[1].Amount != "" {
		t.Fatalf("short row should be padded: %+v", got[1])
	}
}

func TestParseValuesErrors(t *testing.T) {
	if _, err := parseValues(nil); err == nil {
		t.Fatalf("expected error on empty range")
	}
	_, err := parseValues([][]interface{}{{"Date", "Startup"}})
	if !errors.Is(err, core.ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}
