// Package http holds the middleware and operational endpoints shared by the
// resource handlers in its subpackages.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"strings"
	"time"

	"privatelives/internal/handler/http/respond"
)

// Health statuses. Degraded answers 200: the site still serves what it can.
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusUnconfigured = "not_configured"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// DBSource is the lazily opened pool. *db.Provider satisfies it.
type DBSource interface {
	Configured() bool
	DB(ctx context.Context) (*sql.DB, error)
}

// KeyCounter reports how many client IPs the rate limiter tracks.
type KeyCounter interface {
	ActiveKeys() int
}

// HealthHandler pings the database and reports which upstreams have their
// secrets configured. Upstreams are not called: a health probe must not
// spend model API quota.
type HealthHandler struct {
	DB          DBSource
	Version     string
	Upstreams   map[string]bool
	RateLimiter KeyCounter
}

// ServeHTTP returns 503 only when a configured database cannot be reached.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		respond.MethodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"database":  h.checkDatabase(ctx),
		"upstreams": h.checkUpstreams(),
	}
	if h.RateLimiter != nil {
		checks["rate_limiter"] = CheckStatus{
			Status:  StatusHealthy,
			Details: map[string]any{"active_ips": h.RateLimiter.ActiveKeys()},
		}
	}

	status, code := StatusHealthy, http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case StatusUnhealthy:
			status, code = StatusUnhealthy, http.StatusServiceUnavailable
		case StatusDegraded, StatusUnconfigured:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// checkDatabase pings the pool and returns its statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil || !h.DB.Configured() {
		return CheckStatus{Status: StatusUnconfigured, Message: "DATABASE_URL is not set"}
	}

	db, err := h.DB.DB(ctx)
	if err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: respond.SanitizeError(err)}
	}
	if err := db.PingContext(ctx); err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: respond.SanitizeError(err)}
	}

	stats := db.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80.0 {
			return CheckStatus{
				Status:  StatusDegraded,
				Message: "connection pool utilization above 80%",
				Details: details,
			}
		}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

// checkUpstreams lists the providers whose secrets are missing.
func (h *HealthHandler) checkUpstreams() CheckStatus {
	var missing []string
	details := make(map[string]any, len(h.Upstreams))
	for name, configured := range h.Upstreams {
		details[name] = configured
		if !configured {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return CheckStatus{Status: StatusHealthy, Details: details}
	}
	sort.Strings(missing)
	return CheckStatus{
		Status:  StatusDegraded,
		Message: "not configured: " + strings.Join(missing, ", "),
		Details: details,
	}
}

// LiveHandler answers liveness probes without touching dependencies.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
