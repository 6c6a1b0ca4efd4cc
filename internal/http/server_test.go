package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fundboard/internal/amqp"
	"fundboard/internal/core"
	"fundboard/internal/dataset"
	"fundboard/internal/log"
	"fundboard/internal/metrics"
	"fundboard/internal/services"
	"fundboard/internal/source/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.QueryEvent
}

func (p *recordingPublisher) PublishQueryEvent(_ context.Context, e *amqp.QueryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestServer(t *testing.T, opts ...services.Option) (*Server, *metrics.Metrics) {
	t.Helper()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	m := metrics.New()
	opts = append([]services.Option{services.WithLogger(logger), services.WithMetrics(m)}, opts...)
	svc := services.NewQueryService(dataset.New(memory.Sample()), opts...)

	srv := NewServer(":0", svc, Config{Metrics: m, Logger: logger})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, m
}

func do(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	var ready struct {
		Status  string `json:"status"`
		Records int    `json:"records"`
	}
	decode(t, do(t, srv, http.MethodGet, "/readyz"), &ready)
	if ready.Status != "ready" || ready.Records != 10 {
		t.Errorf("readyz = %+v, want ready with 10 records", ready)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if rr := do(t, srv, http.MethodGet, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz after shutdown status=%d, want 503", rr.Code)
	}
}

func TestSecurityAndTraceHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/api/startups")

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rr.Header().Get("X-Request-ID"); !strings.HasPrefix(got, "req_") {
		t.Errorf("X-Request-ID = %q, want req_ prefix", got)
	}
}

func TestOverall(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantMetric string
		wantUnit   string
	}{
		{"default metric", "/api/overall", http.StatusOK, "sum", "Cr"},
		{"sum", "/api/overall?metric=sum", http.StatusOK, "sum", "Cr"},
		{"count", "/api/overall?metric=count", http.StatusOK, "count", "records"},
		{"unknown metric", "/api/overall?metric=median", http.StatusBadRequest, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodGet, tt.target)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var ov struct {
				Total      json.Number `json:"total"`
				MaxFunding struct {
					Startup string `json:"startup"`
				} `json:"max_funding"`
				Trend struct {
					Metric string `json:"metric"`
					Unit   string `json:"unit"`
				} `json:"trend"`
			}
			decode(t, rr, &ov)
			if ov.Total.String() != "24732.8" {
				t.Errorf("total = %s, want 24732.8", ov.Total)
			}
			if ov.MaxFunding.Startup != "Flipkart" {
				t.Errorf("max_funding = %q, want Flipkart", ov.MaxFunding.Startup)
			}
			if ov.Trend.Metric != tt.wantMetric || ov.Trend.Unit != tt.wantUnit {
				t.Errorf("trend = %+v, want %s/%s", ov.Trend, tt.wantMetric, tt.wantUnit)
			}
		})
	}
}

func TestStartup(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"known", "/api/startup?name=Ola", http.StatusOK},
		{"padded name", "/api/startup?name=%20Ola%20", http.StatusOK},
		{"unknown", "/api/startup?name=Nowhere", http.StatusNotFound},
		{"missing name", "/api/startup", http.StatusBadRequest},
		{"blank name", "/api/startup?name=%20%20", http.StatusBadRequest},
		{"too long", "/api/startup?name=" + strings.Repeat("x", maxNameLength+1), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodGet, tt.target)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if rr.Code != http.StatusOK {
				var body struct {
					Error string `json:"error"`
				}
				decode(t, rr, &body)
				if body.Error == "" {
					t.Errorf("error body missing message: %s", rr.Body.String())
				}
				return
			}
			var p struct {
				Name          string   `json:"name"`
				City          string   `json:"city"`
				InvestorNames []string `json:"investor_names"`
				Rounds        int      `json:"rounds"`
			}
			decode(t, rr, &p)
			if p.Name != "Ola" || p.City != "Bengaluru" || p.Rounds != 2 || len(p.InvestorNames) != 3 {
				t.Errorf("profile = %+v", p)
			}
		})
	}
}

func TestInvestor(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantRecords int
		wantMatch   string
	}{
		{"exact default", "/api/investor?name=SoftBank%20Group", http.StatusOK, 4, "exact"},
		{"exact token only", "/api/investor?name=Accel", http.StatusOK, 1, "exact"},
		{"substring", "/api/investor?name=Accel&match=substring", http.StatusOK, 2, "substring"},
		{"case-insensitive mode", "/api/investor?name=Accel&match=SUBSTRING", http.StatusOK, 2, "substring"},
		{"unknown investor", "/api/investor?name=Ghost%20Capital", http.StatusNotFound, 0, ""},
		{"bad match mode", "/api/investor?name=Accel&match=fuzzy", http.StatusBadRequest, 0, ""},
		{"missing name", "/api/investor", http.StatusBadRequest, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodGet, tt.target)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if rr.Code != http.StatusOK {
				return
			}
			var p struct {
				Match   string            `json:"match"`
				Records int               `json:"records"`
				Recent  []json.RawMessage `json:"recent"`
			}
			decode(t, rr, &p)
			if p.Records != tt.wantRecords || p.Match != tt.wantMatch {
				t.Errorf("profile records=%d match=%q, want %d %q", p.Records, p.Match, tt.wantRecords, tt.wantMatch)
			}
			if len(p.Recent) != tt.wantRecords {
				t.Errorf("recent has %d entries, want %d", len(p.Recent), tt.wantRecords)
			}
		})
	}
}

func TestInvestor_ServerDefaultMatch(t *testing.T) {
	srv, _ := newTestServer(t, services.WithDefaultMatch("substring"))

	var p struct {
		Match   string `json:"match"`
		Records int    `json:"records"`
	}
	decode(t, do(t, srv, http.MethodGet, "/api/investor?name=Accel"), &p)
	if p.Match != "substring" || p.Records != 2 {
		t.Errorf("profile = %+v, want substring with 2 records", p)
	}
}

func TestLists(t *testing.T) {
	srv, _ := newTestServer(t)

	var startups nameList
	decode(t, do(t, srv, http.MethodGet, "/api/startups"), &startups)
	if startups.Count != 9 || len(startups.Names) != 9 {
		t.Errorf("startups count=%d names=%d, want 9", startups.Count, len(startups.Names))
	}

	var investorList nameList
	decode(t, do(t, srv, http.MethodGet, "/api/investors"), &investorList)
	for _, want := range []string{"Accel", "Accel Partners", "SoftBank Group"} {
		found := false
		for _, n := range investorList.Names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("investors missing %q", want)
		}
	}

	var info struct {
		Report struct {
			Rows           int `json:"rows"`
			MissingAmounts int `json:"missing_amounts"`
		} `json:"report"`
		Startups int    `json:"startups"`
		Unit     string `json:"unit"`
	}
	decode(t, do(t, srv, http.MethodGet, "/api/dataset"), &info)
	if info.Report.Rows != 10 || info.Report.MissingAmounts != 1 || info.Startups != 9 || info.Unit != "Cr" {
		t.Errorf("dataset = %+v", info)
	}
}

func TestMethodNotAllowedAndUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/startup?name=Ola")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if got := rr.Header().Get("Allow"); got != "GET, HEAD" {
		t.Errorf("Allow = %q", got)
	}

	rr = do(t, srv, http.MethodGet, "/api/nope")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error"`) {
		t.Errorf("unknown path body = %q, want JSON error", rr.Body.String())
	}
}

func TestProfileCaching(t *testing.T) {
	pub := &recordingPublisher{}
	srv, _ := newTestServer(t, services.WithPublisher(pub))

	for i := 0; i < 3; i++ {
		if rr := do(t, srv, http.MethodGet, "/api/startup?name=Ola"); rr.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, rr.Code)
		}
	}
	// Unknown names are never cached.
	for i := 0; i < 2; i++ {
		do(t, srv, http.MethodGet, "/api/startup?name=Nowhere")
	}

	if got := srv.startupCache.Cache().Size(); got != 1 {
		t.Errorf("startup cache size = %d, want 1", got)
	}
	if len(pub.events) != 5 {
		t.Errorf("published %d events, want 5 (cached answers are audited too)", len(pub.events))
	}

	body := do(t, srv, http.MethodGet, "/metrics").Body.String()
	for _, want := range []string{
		`fundboard_cache_hits_total{kind="startup"} 2`,
		`fundboard_cache_misses_total{kind="startup"} 3`,
		`fundboard_queries_total{kind="startup",outcome="not_found"} 2`,
		`fundboard_http_requests_total{method="GET",route="/api/startup",status="200"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestLookup_ConcurrentRequestsAreAudited(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		wantFound bool
	}{
		{"shared load", "Ola", true},
		{"shared not found", "Nowhere", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			srv, _ := newTestServer(t, services.WithPublisher(pub))
			ctx := context.Background()

			release := make(chan struct{})
			load := func() (core.StartupProfile, error) {
				<-release
				return srv.svc.Startup(ctx, tt.subject)
			}

			const callers = 5
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = lookup(ctx, srv, srv.startupCache, amqp.QueryStartup, tt.subject, tt.subject, "", load)
				}()
			}
			time.Sleep(50 * time.Millisecond)
			close(release)
			wg.Wait()

			if got := pub.count(); got != callers {
				t.Fatalf("%d concurrent requests produced %d audit events", callers, got)
			}
			for _, e := range pub.events {
				if e.Subject != tt.subject || e.Found != tt.wantFound {
					t.Errorf("event = %+v, want subject %q found=%v", e, tt.subject, tt.wantFound)
				}
			}
		})
	}
}
