package memory

import (
	"context"
	"fmt"
	"sync"

	"fundboard/internal/core"
	"fundboard/internal/source"
)

// Store keeps raw records in memory. It backs tests and the demo backend.
type Store struct {
	mu    sync.Mutex
	items []core.RawRecord
}

var (
	_ source.RecordSource = (*Store)(nil)
	_ source.RecordWriter = (*Store)(nil)
)

func New(records ...core.RawRecord) *Store {
	return &Store{items: append([]core.RawRecord(nil), records...)}
}

// NewSample returns a store seeded with a small sample of Indian startup funding rounds.
func NewSample() *Store {
	return New(Sample()...)
}

// LoadRecords returns a copy of the stored records.
func (s *Store) LoadRecords(_ context.Context) ([]core.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RawRecord(nil), s.items...), nil
}

// ReplaceRecords swaps the stored records and returns how many were stored.
func (s *Store) ReplaceRecords(_ context.Context, records []core.RawRecord) (int, error) {
	for i, r := range records {
		if r.Startup == "" {
			return 0, fmt.Errorf("record %d: %w", i, core.ErrEmptyStartup)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.RawRecord(nil), records...)
	return len(s.items), nil
}

// Sample is a handful of rows shaped like the cleaned funding dataset.
func Sample() []core.RawRecord {
	return []core.RawRecord{
		{Date: "2020-01-09", Startup: "BYJU'S", Vertical: "E-Tech", Subvertical: "E-learning", City: "Bengaluru", Investors: "Tiger Global Management", Round: "Private Equity Round", Amount: "1900"},
		{Date: "2020-01-13", Startup: "Shuttl", Vertical: "Transportation", Subvertical: "App based shuttle service", City: "Gurgaon", Investors: "Susquehanna Growth Equity", Round: "Series C", Amount: "66"},
		{Date: "2020-01-09", Startup: "Mamaearth", Vertical: "E-commerce", Subvertical: "Retailer of baby and toddler products", City: "Bengaluru", Investors: "Sequoia Capital India", Round: "Series B", Amount: "144"},
		{Date: "2020-01-02", Startup: "https://www.wealthbucket.in/", Vertical: "FinTech", Subvertical: "Online Investment", City: "New Delhi", Investors: "Vinod Khatumal", Round: "Pre-series A", Amount: "21"},
		{Date: "2019-12-23", Startup: "Fashor", Vertical: "Fashion and Apparel", Subvertical: "Embroiled Clothes For Women", City: "Mumbai", Investors: "Sprout Venture Partners", Round: "Seed Round", Amount: "1.8"},
		{Date: "2018-11-19", Startup: "Ola", Vertical: "Transportation", Subvertical: "Cab Aggregator", City: "Bengaluru", Investors: "Tencent Holdings, SoftBank Group, Sequoia Capital India", Round: "Series J", Amount: "1600"},
		{Date: "2017-08-10", Startup: "Flipkart", Vertical: "E-commerce", Subvertical: "Online Marketplace", City: "Bengaluru", Investors: "SoftBank Group", Round: "Private Equity", Amount: "10000"},
		{Date: "2017-05-18", Startup: "Paytm", Vertical: "FinTech", Subvertical: "Mobile Wallet", City: "Noida", Investors: "SoftBank Group", Round: "Private Equity", Amount: "9000"},
		{Date: "05/07/2016", Startup: "Ola", Vertical: "Transportation", Subvertical: "Cab Aggregator", City: "Bengaluru", Investors: "SoftBank Group, Accel Partners", Round: "Series F", Amount: "2000"},
		{Date: "2015-10-12", Startup: "Swiggy", Vertical: "Food Delivery", Subvertical: "Online Food Ordering", City: "Bengaluru", Investors: "Accel, SAIF Partners", Round: "Series B", Amount: ""},
	}
}
