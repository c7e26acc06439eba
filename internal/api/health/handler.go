package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"finadvisor/pkg/logger"
)

// Check probes one dependency; a nil error means healthy.
type Check func(ctx context.Context) error

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      map[string]Check
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a health handler. checks may be empty when the process has
// no optional dependencies configured.
func New(log *logger.Logger, serviceName, version string, checks map[string]Check) *Handler {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &Handler{
		log:         log.With("component", "health"),
		checks:      checks,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Routes mounts the health endpoints on mux
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health/live", h.HandleLiveness)
	mux.HandleFunc("/health/ready", h.HandleReadiness)
	mux.HandleFunc("/health", h.HandleHealth)
}

// HandleLiveness returns 200 OK while the process is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness fails when any configured dependency is unhealthy
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := h.status(checks)

	code := http.StatusOK
	if healthy < len(checks) {
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", checks)
	}
	writeJSON(w, code, status)
}

// HandleHealth reports every check; partial failure is "degraded" but still 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := h.status(checks)

	code := http.StatusOK
	switch {
	case len(checks) > 0 && healthy == 0:
		status.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	case healthy < len(checks):
		status.Status = "degraded"
	}
	writeJSON(w, code, status)
}

func (h *Handler) status(checks map[string]ComponentHealth) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
}

func (h *Handler) runChecks(ctx context.Context) (map[string]ComponentHealth, int) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]ComponentHealth, len(names))
	healthy := 0
	for _, name := range names {
		start := time.Now()
		err := h.checks[name](ctx)
		elapsed := time.Since(start)

		if err != nil {
			h.log.Warnw("Health check failed", "check", name, "error", err, "elapsed", elapsed)
			results[name] = ComponentHealth{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
			continue
		}
		results[name] = ComponentHealth{Status: "healthy", ResponseTime: elapsed.String()}
		healthy++
	}
	return results, healthy
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
