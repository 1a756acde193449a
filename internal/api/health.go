package api

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	env     string
	version string
	started time.Time
}

func NewHealthHandler(env, version string) *HealthHandler {
	return &HealthHandler{
		env:     env,
		version: version,
		started: time.Now(),
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"status":  "ok",
		"version": h.version,
		"env":     h.env,
	})
}

// Readiness has no external dependencies to probe: every store lives in
// process memory, so a live process is a ready process.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"status":  "ok",
		"version": h.version,
		"env":     h.env,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
