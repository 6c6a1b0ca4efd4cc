package http

import (
	"errors"
	"net/http"
	"strings"

	"fundboard/internal/core"
	"fundboard/internal/log"
	"fundboard/internal/middleware/trace"
)

// maxNameLength bounds the startup and investor names accepted in queries.
const maxNameLength = 200

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// requiredName reads the "name" query parameter. It writes a 400 response
// and returns false when the name is missing or too long.
func requiredName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := sanitizeInput(r.URL.Query().Get("name"))
	switch {
	case name == "":
		BadRequestError("missing name parameter").Write(w)
		return "", false
	case len(name) > maxNameLength:
		BadRequestError("name parameter too long").Write(w)
		return "", false
	}
	return name, true
}

// writeLookupError maps a query error to its response: unknown names are
// 404, anything else is logged and reported as 500.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrNotFound) {
		NotFoundError(err.Error()).Write(w)
		return
	}
	sl := log.NewStructuredLogger(log.FromContext(r.Context()))
	sl.LogError(r.Context(), "Query failed", err, log.ComponentHTTP, log.OpQuery,
		log.NewFields().WithRequestID(trace.GetRequestID(r.Context())))
	InternalServerError("internal error").Write(w)
}

// getOnly rejects every method but GET and HEAD with a JSON 405.
func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trace.RecordRoute(r)
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			MethodNotAllowedError("GET, HEAD").Write(w)
			return
		}
		next(w, r)
	}
}
