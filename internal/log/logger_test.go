package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLogger_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentQuery)

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "component=query") || !strings.Contains(out, "key=value") {
		t.Errorf("log line = %q", out)
	}
}

func TestStructuredLogger_LogQuery(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentApp))

	sl.LogQuery(context.Background(), "investor", "Accel", "exact", true, 3)

	out := buf.String()
	for _, want := range []string{"kind=investor", "subject=Accel", "match=exact", "found=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestMiddleware_FromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentHTTP)

	var got *Logger
	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_42" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got == nil || got.Component() != ComponentHTTP {
		t.Fatalf("FromContext() component = %v, want %s", got, ComponentHTTP)
	}
	got.Info("served")
	if out := buf.String(); !strings.Contains(out, "request_id=req_42") {
		t.Errorf("log line %q missing request_id", out)
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("FromContext() without a logger should fall back to the default")
	}
}

func TestLogger_WithComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := FromSlog(slog.New(slog.NewTextHandler(&buf, nil))).WithComponent(ComponentHTTP)

	logger.Info("served")

	out := buf.String()
	if n := strings.Count(out, "component="); n != 1 {
		t.Errorf("component appears %d times in %q, want 1", n, out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("log line = %q", out)
	}
}

func TestStructuredLogger_HTTPEndLevels(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{200, "level=INFO"},
		{404, "level=WARN"},
		{503, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newBufferLogger(&buf, ComponentTrace))
		r := httptest.NewRequest("GET", "/api/startup?name=Ola", nil)

		sl.LogHTTPEnd(context.Background(), r, "req_1", "/api/startup", tt.status, 2, "10.0.0.1")

		out := buf.String()
		for _, want := range []string{tt.wantLevel, "request_id=req_1", "route=/api/startup", "client_ip=10.0.0.1", "component=trace"} {
			if !strings.Contains(out, want) {
				t.Errorf("status %d: log line %q missing %q", tt.status, out, want)
			}
		}
	}
}

func TestStructuredLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf, ComponentApp))

	sl.LogError(context.Background(), "Query failed", errors.New("boom"), ComponentHTTP, OpQuery, nil)

	out := buf.String()
	for _, want := range []string{"level=ERROR", "component=http", "error=boom", "operation=query"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
	if n := strings.Count(out, "component="); n != 1 {
		t.Errorf("component appears %d times in %q", n, out)
	}
}
