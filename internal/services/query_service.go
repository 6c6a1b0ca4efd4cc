package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"fundboard/internal/aggregate"
	"fundboard/internal/amqp"
	"fundboard/internal/core"
	"fundboard/internal/dataset"
	"fundboard/internal/investors"
	"fundboard/internal/log"
	"fundboard/internal/metrics"
)

// profileListSize bounds the Recent and Biggest lists of an investor profile.
const profileListSize = 5

// EventPublisher publishes query audit events. *amqp.Client implements it.
type EventPublisher interface {
	PublishQueryEvent(ctx context.Context, event *amqp.QueryEvent) error
}

// QueryService answers the dashboard queries over one immutable dataset.
// It is safe for concurrent use.
type QueryService struct {
	ds            *dataset.Dataset
	records       []core.FundingRecord
	investorNames []string
	defaultMatch  investors.MatchMode

	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *log.Logger
	sl        *log.StructuredLogger
}

type Option func(*QueryService)

// WithPublisher makes every query publish a QueryEvent. Publish errors are
// logged and never fail the query.
func WithPublisher(p EventPublisher) Option {
	return func(s *QueryService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *QueryService) { s.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(s *QueryService) { s.logger = l }
}

// WithDefaultMatch sets the investor match mode used when a query passes none.
func WithDefaultMatch(mode investors.MatchMode) Option {
	return func(s *QueryService) { s.defaultMatch = mode }
}

func NewQueryService(ds *dataset.Dataset, opts ...Option) *QueryService {
	records := ds.Records()
	s := &QueryService{
		ds:            ds,
		records:       records,
		investorNames: investors.AllNames(records),
		defaultMatch:  investors.MatchExact,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentQuery)
	}
	s.sl = log.NewStructuredLogger(s.logger)

	rep := ds.Report()
	s.metrics.SetDataset(rep.Rows, rep.UnparsableDates, rep.MissingAmounts, rep.DroppedRows+rep.InvalidRows)
	return s
}

// Overall computes the market-wide figures. The metric selects the monthly
// trend reduction.
func (s *QueryService) Overall(ctx context.Context, metric aggregate.Metric) core.Overview {
	start := time.Now()
	rs := s.records

	tops := aggregate.TopFundedPerYear(rs)
	ov := core.Overview{
		Total:          aggregate.TotalAmount(rs),
		AverageFunding: aggregate.AverageFundingPerStartup(rs),
		Unit:           core.UnitCrore,
		Trend:          aggregate.MonthlyTrend(rs, metric),
		TopPerYear:     tops,
		TopStartups:    aggregate.StartupView(tops),
		TopInvestors:   aggregate.InvestorView(tops),
	}
	if maxFunding, ok := aggregate.MaxSingleFunding(rs); ok {
		ov.MaxFunding = &maxFunding
	}

	s.finish(ctx, amqp.QueryOverall, "", "", nil, start)
	return ov
}

// Startup returns the profile of a startup, taken from its first record.
// A name without records yields a *core.NotFoundError.
func (s *QueryService) Startup(ctx context.Context, name string) (core.StartupProfile, error) {
	start := time.Now()
	name = strings.TrimSpace(name)

	var (
		profile core.StartupProfile
		found   bool
	)
	for _, r := range s.records {
		if r.Startup != name {
			continue
		}
		if !found {
			profile = core.StartupProfile{
				Name:          r.Startup,
				Vertical:      r.Vertical,
				Subvertical:   r.Subvertical,
				City:          r.City,
				Investors:     r.Investors,
				InvestorNames: r.InvestorNames(),
			}
			found = true
		}
		profile.Rounds++
	}

	var err error
	if !found {
		err = &core.NotFoundError{Kind: core.KindStartup, Name: name}
	}
	s.finish(ctx, amqp.QueryStartup, name, "", err, start)
	return profile, err
}

// Investor returns the portfolio view of an investor. An empty mode uses the
// service default. A name without records yields a *core.NotFoundError.
func (s *QueryService) Investor(ctx context.Context, name string, mode investors.MatchMode) (core.InvestorProfile, error) {
	start := time.Now()
	name = strings.TrimSpace(name)
	if mode == "" {
		mode = s.defaultMatch
	}

	rs := investors.RecordsInvolving(s.records, name, mode)
	if len(rs) == 0 {
		err := &core.NotFoundError{Kind: core.KindInvestor, Name: name}
		s.finish(ctx, amqp.QueryInvestor, name, string(mode), err, start)
		return core.InvestorProfile{}, err
	}

	profile := core.InvestorProfile{
		Name:    name,
		Match:   string(mode),
		Records: len(rs),
		Recent:  recentInvestments(rs, profileListSize),
		Biggest: aggregate.GroupSum(rs, aggregate.FieldStartup).SortedByAmount().Top(profileListSize),
		Sectors: aggregate.GroupSum(rs, aggregate.FieldVertical),
		Years:   aggregate.GroupSum(rs, aggregate.FieldYear),
		Cities:  aggregate.GroupSum(rs, aggregate.FieldCity),
	}

	s.finish(ctx, amqp.QueryInvestor, name, string(mode), nil, start)
	return profile, nil
}

// recentInvestments returns up to n records, newest first. Records without a
// date sort last; equal dates keep record order.
func recentInvestments(rs []core.FundingRecord, n int) []core.Investment {
	sorted := slices.Clone(rs)
	slices.SortStableFunc(sorted, func(a, b core.FundingRecord) int {
		switch {
		case a.Date.IsEmpty() && b.Date.IsEmpty():
			return 0
		case a.Date.IsEmpty():
			return 1
		case b.Date.IsEmpty():
			return -1
		}
		return b.Date.Compare(a.Date.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]core.Investment, len(sorted))
	for i, r := range sorted {
		out[i] = core.Investment{
			Date:     r.Date.String(),
			Startup:  r.Startup,
			Vertical: r.Vertical,
			City:     r.City,
			Round:    r.Round,
			Amount:   r.Amount,
		}
	}
	return out
}

// StartupNames lists every startup, sorted.
func (s *QueryService) StartupNames() []string {
	return s.ds.Startups()
}

// InvestorNames lists every individual investor, sorted.
func (s *QueryService) InvestorNames() []string {
	return slices.Clone(s.investorNames)
}

// DefaultMatch is the investor match mode used when a caller passes none.
func (s *QueryService) DefaultMatch() investors.MatchMode {
	return s.defaultMatch
}

// RecordCached accounts for a query answered without reaching the service,
// from a response cache or from a concurrent identical query whose outcome
// was err. It is logged and audited like a computed one.
func (s *QueryService) RecordCached(ctx context.Context, kind, subject, match string, err error) {
	s.finish(ctx, kind, subject, match, err, time.Now())
}

// Diagnostics returns the normalization report of the dataset.
func (s *QueryService) Diagnostics() dataset.Report {
	return s.ds.Report()
}

// finish records metrics, the debug log line and the audit event of a query.
func (s *QueryService) finish(ctx context.Context, kind, subject, match string, err error, start time.Time) {
	elapsed := time.Since(start)
	found := err == nil

	outcome := metrics.OutcomeOK
	switch {
	case errors.Is(err, core.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	}
	s.metrics.ObserveQuery(kind, outcome, elapsed)
	s.sl.LogQuery(ctx, kind, subject, match, found, elapsed.Milliseconds())

	if s.publisher == nil {
		return
	}
	event := amqp.NewQueryEvent(kind, subject, found)
	event.Match = match
	if perr := s.publisher.PublishQueryEvent(ctx, event); perr != nil {
		s.metrics.EventFailed()
		s.logger.WarnContext(ctx, "Failed to publish query event",
			log.FieldKind, kind,
			log.FieldSubject, subject,
			log.FieldOperation, log.OpPublish,
			log.FieldError, perr)
	}
}
