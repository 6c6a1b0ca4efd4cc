package worker

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"fundboard/internal/amqp"
)

// SubjectCount is how often a startup or investor was looked up.
type SubjectCount struct {
	Subject string
	Count   int
}

// AuditSummary is a point-in-time view of the tallied query events.
type AuditSummary struct {
	Events    int
	Overall   int
	NotFound  int
	Startups  []SubjectCount
	Investors []SubjectCount
}

// AuditWorker tallies query events and periodically logs the most requested
// startups and investors.
type AuditWorker struct {
	topN int

	mu        sync.Mutex
	events    int
	overall   int
	notFound  int
	startups  map[string]int
	investors map[string]int
}

func NewAuditWorker(topN int) *AuditWorker {
	if topN < 1 {
		topN = 10
	}
	return &AuditWorker{
		topN:      topN,
		startups:  make(map[string]int),
		investors: make(map[string]int),
	}
}

// HandleQueryEvent processes a single query event from AMQP. Events of an
// unknown kind are logged and dropped.
func (w *AuditWorker) HandleQueryEvent(ctx context.Context, e *amqp.QueryEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch e.Kind {
	case amqp.QueryOverall:
		w.overall++
	case amqp.QueryStartup:
		w.startups[e.Subject]++
	case amqp.QueryInvestor:
		w.investors[e.Subject]++
	default:
		slog.WarnContext(ctx, "Dropping query event of unknown kind", "kind", e.Kind)
		return nil
	}
	w.events++
	if !e.Found {
		w.notFound++
	}
	return nil
}

// Summary returns the current tallies with the topN subjects of each kind.
func (w *AuditWorker) Summary() AuditSummary {
	w.mu.Lock()
	defer w.mu.Unlock()

	return AuditSummary{
		Events:    w.events,
		Overall:   w.overall,
		NotFound:  w.notFound,
		Startups:  top(w.startups, w.topN),
		Investors: top(w.investors, w.topN),
	}
}

// top orders subjects by count descending, then by name.
func top(counts map[string]int, n int) []SubjectCount {
	out := make([]SubjectCount, 0, len(counts))
	for s, c := range counts {
		out = append(out, SubjectCount{Subject: s, Count: c})
	}
	slices.SortFunc(out, func(a, b SubjectCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Subject, b.Subject))
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Report logs the current summary.
func (w *AuditWorker) Report(ctx context.Context) {
	s := w.Summary()
	if s.Events == 0 {
		slog.InfoContext(ctx, "No query events received yet")
		return
	}

	slog.InfoContext(ctx, "Query audit report",
		"events", s.Events,
		"overall", s.Overall,
		"not_found", s.NotFound)
	for i, sc := range s.Startups {
		slog.InfoContext(ctx, "Most requested startup", "rank", i+1, "startup", sc.Subject, "count", sc.Count)
	}
	for i, sc := range s.Investors {
		slog.InfoContext(ctx, "Most requested investor", "rank", i+1, "investor", sc.Subject, "count", sc.Count)
	}
}

// RunReports logs a report every interval until ctx is done, then logs a
// final one.
func (w *AuditWorker) RunReports(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Report(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			w.Report(ctx)
		}
	}
}
