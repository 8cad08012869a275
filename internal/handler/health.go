package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// readyTimeout bounds each dependency check in /readyz.
const readyTimeout = 2 * time.Second

type statusResponse struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

// GetHealth handles GET /healthz.
// It returns 200 {"status":"ok"} whenever the process is serving.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// GetReady handles GET /readyz. Every registered check must answer within
// readyTimeout, otherwise the response is 503 naming the failed checks.
func (s *Server) GetReady(w http.ResponseWriter, r *http.Request) {
	var failed []string
	for name, c := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		err := c.Ping(ctx)
		cancel()
		if err != nil {
			slog.WarnContext(r.Context(), "readiness check failed", "check", name, "error", err)
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable", Failed: failed})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	if len(s.openAPI) == 0 {
		writeError(w, http.StatusNotFound, msgRouteNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.openAPI)
}
