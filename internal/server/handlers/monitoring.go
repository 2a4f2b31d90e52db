package handlers

import (
	"log/slog"
	"net/http"
	"time"

	derrors "github.com/alexsohr/autodoc/internal/errors"
	"github.com/alexsohr/autodoc/internal/eventstore"
	"github.com/alexsohr/autodoc/internal/server/responses"
)

// MonitoringHandlers serves health checks and run history.
type MonitoringHandlers struct {
	store        eventstore.Store
	startTime    time.Time
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewMonitoringHandlers constructs a new MonitoringHandlers. The store may be
// nil, in which case the history endpoint reports empty results.
func NewMonitoringHandlers(store eventstore.Store) *MonitoringHandlers {
	return &MonitoringHandlers{
		store:        store,
		startTime:    time.Now(),
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealth answers liveness probes.
func (h *MonitoringHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := responses.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	_ = writeJSONPretty(w, r, http.StatusOK, resp)
}

// HandleRuns returns recent generation runs for a repository
// (?repository=owner/name).
func (h *MonitoringHandlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := derrors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	repository := r.URL.Query().Get("repository")
	if repository == "" {
		err := derrors.ValidationError("missing repository query parameter").Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	resp := responses.RunHistoryResponse{
		Status:    "ok",
		Runs:      []responses.RunInfo{},
		Timestamp: time.Now().UTC(),
	}
	if h.store != nil {
		records, err := h.store.GetByRepository(r.Context(), repository, 50)
		if err != nil {
			derr := derrors.StoreError("querying run history").WithCause(err).Build()
			h.errorAdapter.WriteErrorResponse(w, r, derr)
			return
		}
		for _, rec := range records {
			resp.Runs = append(resp.Runs, responses.RunInfo{
				RunID:       rec.RunID,
				Repository:  rec.Repository,
				Trigger:     rec.Trigger,
				Status:      rec.Status,
				PagesTotal:  rec.PagesTotal,
				PagesFailed: rec.PagesFailed,
				Error:       rec.Error,
				Artifact:    rec.Artifact,
				StartedAt:   rec.StartedAt,
				FinishedAt:  rec.FinishedAt,
			})
		}
	}
	_ = writeJSONPretty(w, r, http.StatusOK, resp)
}
