package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/fetcher"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/services"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/sources"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	pipeline *services.Pipeline
	health   *fetcher.HealthChecker
	logger   *utils.Logger
}

func NewHandlers(pipeline *services.Pipeline, health *fetcher.HealthChecker, logger *utils.Logger) *Handlers {
	return &Handlers{pipeline: pipeline, health: health, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Search runs one pipeline query. The request body is a SearchQuery; the
// response carries the ranked results plus the run report.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.pipeline.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("[api] Search failed: %v", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health probes every configured source and reports their reachability.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	statuses := h.health.CheckAll(ctx)

	healthy := true
	for _, s := range statuses {
		if !s.Healthy {
			healthy = false
			break
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"healthy": healthy,
		"sources": statuses,
	})
}

// Suburbs lists the suburbs accepted by the search endpoint.
func (h *Handlers) Suburbs(w http.ResponseWriter, _ *http.Request) {
	names := sources.SupportedSuburbs()
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{"suburbs": names})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
