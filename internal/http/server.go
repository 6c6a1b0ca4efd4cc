package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fundboard/internal/cache"
	"fundboard/internal/core"
	"fundboard/internal/log"
	"fundboard/internal/metrics"
	"fundboard/internal/middleware/security"
	"fundboard/internal/middleware/trace"
	"fundboard/internal/services"
)

// Config tunes a Server. Zero values fall back to the defaults below.
type Config struct {
	CacheSize       int
	CacheTTL        time.Duration
	CleanupInterval time.Duration
	Metrics         *metrics.Metrics
	Logger          *log.Logger
}

const (
	defaultCacheSize       = 200
	defaultCacheTTL        = 30 * time.Minute
	defaultCleanupInterval = 5 * time.Minute
)

// Server serves the query API over one QueryService. Answers are cached per
// query; the dataset is immutable, so the TTL only bounds memory.
type Server struct {
	http.Server

	svc     *services.QueryService
	metrics *metrics.Metrics
	logger  *log.Logger
	tracer  *trace.Middleware

	overviewCache *cache.Loading[core.Overview]
	startupCache  *cache.Loading[core.StartupProfile]
	investorCache *cache.Loading[core.InvestorProfile]
	cacheManager  *cache.Manager

	started      time.Time
	shuttingDown atomic.Bool
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.QueryService, cfg Config) *Server {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig())
	}

	overview := cache.NewLRUCache[core.Overview](4, cfg.CacheTTL)
	startups := cache.NewLRUCache[core.StartupProfile](cfg.CacheSize, cfg.CacheTTL)
	investorProfiles := cache.NewLRUCache[core.InvestorProfile](cfg.CacheSize, cfg.CacheTTL)

	s := &Server{
		svc:           svc,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger.WithComponent(log.ComponentHTTP),
		tracer:        trace.NewMiddleware(cfg.Logger, trace.ClientIP, cfg.Metrics.ObserveRequest),
		overviewCache: cache.NewLoading[core.Overview](overview),
		startupCache:  cache.NewLoading[core.StartupProfile](startups),
		investorCache: cache.NewLoading[core.InvestorProfile](investorProfiles),
		cacheManager:  cache.NewManager(),
		started:       time.Now(),
	}
	s.cacheManager.Register(overview)
	s.cacheManager.Register(startups)
	s.cacheManager.Register(investorProfiles)
	s.cacheManager.StartCleanup(cfg.CleanupInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", getOnly(s.handleHealth))
	mux.HandleFunc("/readyz", getOnly(s.handleReady))
	if cfg.Metrics != nil {
		mux.HandleFunc("/metrics", getOnly(cfg.Metrics.Handler().ServeHTTP))
	}
	mux.HandleFunc("/api/overall", getOnly(s.handleOverall))
	mux.HandleFunc("/api/startups", getOnly(s.handleStartupList))
	mux.HandleFunc("/api/startup", getOnly(s.handleStartup))
	mux.HandleFunc("/api/investors", getOnly(s.handleInvestorList))
	mux.HandleFunc("/api/investor", getOnly(s.handleInvestor))
	mux.HandleFunc("/api/dataset", getOnly(s.handleDataset))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		trace.RecordRoute(r)
		NotFoundError("no such endpoint").Write(w)
	})

	var h http.Handler = mux
	h = log.RequestIDMiddleware(trace.RequestIDFromRequest)(h)
	h = log.Middleware(s.logger)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the cache cleanup and gracefully shuts the server down.
// It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.shuttingDown.Store(true)
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// lookup runs load through a loading cache and keeps the metrics and the
// query audit trail accurate for answers this request did not compute:
// cache hits and loads shared with a concurrent identical request.
func lookup[T any](ctx context.Context, s *Server, c *cache.Loading[T], kind, key, subject, match string, load func() (T, error)) (T, error) {
	v, hit, err := c.GetOrLoad(key, load)
	if !hit {
		s.metrics.CacheMiss(kind)
		return v, err
	}
	if err != nil {
		s.metrics.CacheMiss(kind)
	} else {
		s.metrics.CacheHit(kind)
	}
	s.svc.RecordCached(ctx, kind, subject, match, err)
	return v, err
}
