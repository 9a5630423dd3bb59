package httpx

import (
	"context"
	"io"
	"net/http"
	"sort"
	"time"
)

const (
	healthResponse     = `{"status":"ok"}`
	readinessTimeout   = 2 * time.Second
	readinessStatusOK  = "ok"
	readinessStatusErr = "unavailable"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// readinessHandler runs every check and answers 503 when any fails.
// Failure details stay in the server log; the body only names the failing dependency.
func readinessHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				results[name] = readinessStatusErr
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = readinessStatusOK
		}

		overall := readinessStatusOK
		if status != http.StatusOK {
			overall = readinessStatusErr
		}
		WriteJSON(w, status, map[string]any{"status": overall, "checks": results})
	}
}
