package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"fundboard/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	routeKey ContextKey = "route"

	// RequestIDHeader echoes the request ID back to the client.
	RequestIDHeader = "X-Request-ID"
)

// Observer receives the outcome of every traced request. route is the
// matched mux pattern, empty when nothing matched.
type Observer func(method, route string, status int, d time.Duration)

// Middleware handles request tracing and logging
type Middleware struct {
	logger    *log.StructuredLogger
	extractIP func(*http.Request) string
	observe   Observer
	stats     *Stats
}

// Stats tracks request counters for the readiness endpoint.
type Stats struct {
	TotalRequests    int64
	LastResponseTime int64 // in microseconds
}

// NewMiddleware creates a new trace middleware. Any argument may be nil; a
// nil logger logs through slog.Default.
func NewMiddleware(logger *log.Logger, extractIP func(*http.Request) string, observe Observer) *Middleware {
	if logger == nil {
		logger = log.FromSlog(slog.Default())
	}
	return &Middleware{
		logger:    log.NewStructuredLogger(logger.WithComponent(log.ComponentTrace)),
		extractIP: extractIP,
		observe:   observe,
		stats:     &Stats{},
	}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := GenerateRequestID()
		route := new(string)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = context.WithValue(ctx, routeKey, route)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		m.logger.LogHTTPStart(ctx, r, requestID, clientIP)

		atomic.AddInt64(&m.stats.TotalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		atomic.StoreInt64(&m.stats.LastResponseTime, duration.Microseconds())

		if m.observe != nil {
			m.observe(r.Method, *route, rw.statusCode, duration)
		}

		m.logger.LogHTTPEnd(ctx, r, requestID, *route, rw.statusCode, duration.Milliseconds(), clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestIDFromRequest is GetRequestID for an *http.Request, suitable for
// log.RequestIDMiddleware.
func RequestIDFromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}

// RecordRoute stores the mux pattern that matched r so the completion log
// and the observer can report it. Handlers behind the middleware call it;
// the middleware itself only sees the request before routing.
func RecordRoute(r *http.Request) {
	if route, ok := r.Context().Value(routeKey).(*string); ok {
		*route = r.Pattern
	}
}

// GetStats returns the current counters.
func (m *Middleware) GetStats() Stats {
	return Stats{
		TotalRequests:    atomic.LoadInt64(&m.stats.TotalRequests),
		LastResponseTime: atomic.LoadInt64(&m.stats.LastResponseTime),
	}
}

// ClientIP returns the caller address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
