package dataset

import (
	"testing"

	"github.com/shopspring/decimal"

	"fundboard/internal/core"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		y, m, d int
		ok      bool
	}{
		{"2020-01-09", 2020, 1, 9, true},
		{"2017-05-18 00:00:00", 2017, 5, 18, true},
		{"05/07/2016", 2016, 7, 5, true},
		{"5/7/2016", 2016, 7, 5, true},
		{"12-03-2018", 2018, 3, 12, true},
		{"2019/11/30", 2019, 11, 30, true},
		{"01/2015", 2015, 1, 1, true},
		{"", 0, 0, 0, false},
		{"12/05.2015", 0, 0, 0, false},
		{"22/01//2015", 0, 0, 0, false},
		{"2020-13-45", 0, 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			if !got.IsEmpty() {
				t.Errorf("ParseDate(%q) should return an empty date", tt.in)
			}
			continue
		}
		if got.Year() != tt.y || int(got.Month()) != tt.m || got.Day() != tt.d {
			t.Errorf("ParseDate(%q) = %s, want %04d-%02d-%02d", tt.in, got, tt.y, tt.m, tt.d)
		}
	}
}

func TestNormalize_DropsInvalidRecords(t *testing.T) {
	raws := []core.RawRecord{
		{Date: "0000-03-01", Startup: "Year zero", Amount: "1"},
		{Date: "0001-01-01", Startup: "Zero time", Amount: "1"},
		{Date: "2019-04-01", Startup: "Kept", Amount: "1"},
	}
	records, rep := Normalize(raws)

	if rep.Rows != 1 || rep.InvalidRows != 2 || rep.DroppedRows != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !rep.Warnings() {
		t.Error("invalid rows should raise a warning")
	}
	if records[0].Startup != "Kept" {
		t.Errorf("kept record = %+v", records[0])
	}
}

func TestNormalize(t *testing.T) {
	raws := []core.RawRecord{
		{Date: "2015-01-02", Startup: " X ", City: " Mumbai", Investors: "A, B ", Amount: "10"},
		{Date: "not a date", Startup: "Y", Amount: "unknown"},
		{Date: "2016-05-02", Startup: "  ", Amount: "5"},
	}
	records, rep := Normalize(raws)

	if rep.Rows != 2 || rep.UnparsableDates != 1 || rep.MissingAmounts != 1 || rep.DroppedRows != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if !rep.Warnings() {
		t.Fatalf("report should carry warnings")
	}

	x := records[0]
	if x.Startup != "X" || x.City != "Mumbai" || x.Investors != "A, B" {
		t.Fatalf("fields not trimmed: %+v", x)
	}
	if x.Year != 2015 || x.Month != 1 || !x.HasPeriod() {
		t.Fatalf("period not derived: %+v", x)
	}
	if !x.Amount.Valid || !x.Amount.Value.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("amount not parsed: %+v", x.Amount)
	}

	y := records[1]
	if !y.Date.IsEmpty() || y.Year != 0 || y.Month != 0 || y.HasPeriod() {
		t.Fatalf("unparsable date must leave date, year and month absent: %+v", y)
	}
	if y.Amount.Valid {
		t.Fatalf("unknown amount must be missing")
	}

	for i, r := range records {
		if err := r.Validate(); err != nil {
			t.Fatalf("record %d violates invariants: %v", i, err)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	records, rep := Normalize(nil)
	if len(records) != 0 || rep.Rows != 0 || rep.Warnings() {
		t.Fatalf("unexpected result for empty input: %v %+v", records, rep)
	}
}
