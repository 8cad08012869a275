package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// GeneratePlan handles GET /get_plan?days=&destination=. The generator's JSON
// is relayed verbatim; every upstream failure gets the same 500 body so no
// upstream detail leaks to the caller.
func (s *Server) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var days int
	if err := runtime.BindQueryParameter("form", true, true, "days", query, &days); err != nil || days < 1 {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}
	var destination string
	if err := runtime.BindQueryParameter("form", true, true, "destination", query, &destination); err != nil ||
		strings.TrimSpace(destination) == "" {
		writeError(w, http.StatusBadRequest, "destination is required")
		return
	}

	body, err := s.generator.Generate(r.Context(), days, destination)
	if err != nil {
		slog.WarnContext(r.Context(), "plan generator failed",
			"days", days,
			"destination", destination,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgUpstream)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
