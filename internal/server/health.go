package server

import (
	"encoding/json"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/jorin/waclerk/internal/google"
)

const (
	healthOK           = "ok"
	healthNotReady     = "not ready"
	healthShuttingDown = "shutting down"
	healthUnconfigured = "not configured"
)

// HealthChecker backs the Kubernetes probe endpoints. Liveness only proves
// the process serves HTTP; readiness flips off during startup and shutdown.
type HealthChecker struct {
	ready     atomic.Bool
	sc        *ServerContext
	startTime time.Time
}

// NewHealthChecker creates a checker over the server context. The checker
// starts ready; serve flips it off again while shutting down.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		sc:        sc,
		startTime: time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state reported by /readyz.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the server accepts traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

func (h *HealthChecker) shuttingDown() bool {
	return h.sc != nil && h.sc.IsShutdown()
}

// HealthResponse is the JSON body of the probe endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// RegisterHealthEndpoints mounts the probe handlers on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

// LivenessHandler serves /healthz. It answers ok for as long as the
// process can serve requests at all.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthOK})
	})
}

// ReadinessHandler serves /readyz. Not-ready and shutting-down both
// answer 503 so the load balancer drains the pod.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := map[string]string{
			"ready":    healthOK,
			"shutdown": healthOK,
		}
		status := healthOK
		code := http.StatusOK

		if !h.ready.Load() {
			checks["ready"] = healthNotReady
			status = healthNotReady
			code = http.StatusServiceUnavailable
		}
		if h.shuttingDown() {
			checks["shutdown"] = healthShuttingDown
			status = healthNotReady
			code = http.StatusServiceUnavailable
		}

		writeHealth(w, code, HealthResponse{Status: status, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed: uptime plus the
// configuration state of each downstream dependency. The checks are
// config-level only; no Graph or Google API calls happen here.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := HealthResponse{
			Status: healthOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Checks: h.dependencyChecks(),
		}
		code := http.StatusOK

		switch {
		case !h.ready.Load():
			response.Status = healthNotReady
			code = http.StatusServiceUnavailable
		case h.shuttingDown():
			response.Status = healthShuttingDown
			code = http.StatusServiceUnavailable
		}

		writeHealth(w, code, response)
	})
}

// dependencyChecks reports the configuration state of every downstream
// service the responder can reach. A missing entry never degrades the
// probe status: the server deliberately runs with partial configuration.
func (h *HealthChecker) dependencyChecks() map[string]string {
	if h.sc == nil {
		return nil
	}
	cfg := h.sc.Config()

	checks := map[string]string{
		"openai":   healthOK,
		"whatsapp": healthOK,
		"google":   healthOK,
		"meet":     healthOK,
	}

	if cfg.OpenAI.APIKey == "" {
		checks["openai"] = healthUnconfigured
	}
	if cfg.WhatsApp.AccessToken == "" || cfg.WhatsApp.PhoneNumberID == "" {
		checks["whatsapp"] = healthUnconfigured
	}
	if cfg.Google.CredentialsJSON == "" {
		checks["google"] = healthUnconfigured
	} else if _, err := google.ParseCredentials(cfg.Google.CredentialsJSON); err != nil {
		checks["google"] = "invalid credentials"
	}
	if cfg.Meet.LinksFile == "" {
		checks["meet"] = healthUnconfigured
	} else if _, err := os.Stat(cfg.Meet.LinksFile); err != nil {
		checks["meet"] = "links file missing"
	}

	return checks
}

func writeHealth(w http.ResponseWriter, code int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response)
}
