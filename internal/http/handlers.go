package http

import (
	"net/http"
	"time"

	"fundboard/internal/aggregate"
	"fundboard/internal/amqp"
	"fundboard/internal/core"
	"fundboard/internal/dataset"
	"fundboard/internal/investors"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether the server accepts queries. The dataset is
// loaded before the server starts, so only shutdown makes it unready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown.Load() {
		ServiceUnavailableError("shutting down").Write(w)
		return
	}

	stats := s.tracer.GetStats()
	OK(map[string]any{
		"status":  "ready",
		"records": s.svc.Diagnostics().Rows,
		"caches": map[string]int{
			amqp.QueryOverall:  s.overviewCache.Cache().Size(),
			amqp.QueryStartup:  s.startupCache.Cache().Size(),
			amqp.QueryInvestor: s.investorCache.Cache().Size(),
		},
		"requests": stats.TotalRequests,
	}).Write(w)
}

// handleOverall serves the market-wide figures. ?metric=sum|count selects
// the monthly trend reduction.
func (s *Server) handleOverall(w http.ResponseWriter, r *http.Request) {
	metric, err := aggregate.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	ctx := r.Context()
	ov, err := lookup(ctx, s, s.overviewCache, amqp.QueryOverall, string(metric), "", "",
		func() (core.Overview, error) {
			return s.svc.Overall(ctx, metric), nil
		})
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	OK(ov).Write(w)
}

func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	name, ok := requiredName(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	profile, err := lookup(ctx, s, s.startupCache, amqp.QueryStartup, name, name, "",
		func() (core.StartupProfile, error) {
			return s.svc.Startup(ctx, name)
		})
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	OK(profile).Write(w)
}

// handleInvestor serves an investor portfolio. ?match=exact|substring
// overrides the configured matching mode.
func (s *Server) handleInvestor(w http.ResponseWriter, r *http.Request) {
	name, ok := requiredName(w, r)
	if !ok {
		return
	}
	mode := s.svc.DefaultMatch()
	if raw := r.URL.Query().Get("match"); raw != "" {
		m, err := investors.ParseMatchMode(raw)
		if err != nil {
			BadRequestError(err.Error()).Write(w)
			return
		}
		mode = m
	}

	ctx := r.Context()
	key := string(mode) + "|" + name
	profile, err := lookup(ctx, s, s.investorCache, amqp.QueryInvestor, key, name, string(mode),
		func() (core.InvestorProfile, error) {
			return s.svc.Investor(ctx, name, mode)
		})
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	OK(profile).Write(w)
}

type nameList struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

func (s *Server) handleStartupList(w http.ResponseWriter, r *http.Request) {
	names := s.svc.StartupNames()
	OK(nameList{Count: len(names), Names: names}).Write(w)
}

func (s *Server) handleInvestorList(w http.ResponseWriter, r *http.Request) {
	names := s.svc.InvestorNames()
	OK(nameList{Count: len(names), Names: names}).Write(w)
}

type datasetInfo struct {
	Report    dataset.Report `json:"report"`
	Startups  int            `json:"startups"`
	Investors int            `json:"investors"`
	Unit      string         `json:"unit"`
}

// handleDataset reports how the dataset was normalized.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	OK(datasetInfo{
		Report:    s.svc.Diagnostics(),
		Startups:  len(s.svc.StartupNames()),
		Investors: len(s.svc.InvestorNames()),
		Unit:      core.UnitCrore,
	}).Write(w)
}
