package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/alexsohr/autodoc/internal/config"
	derrors "github.com/alexsohr/autodoc/internal/errors"
	"github.com/alexsohr/autodoc/internal/events"
	"github.com/alexsohr/autodoc/internal/forge"
	"github.com/alexsohr/autodoc/internal/logfields"
	"github.com/alexsohr/autodoc/internal/metrics"
	"github.com/alexsohr/autodoc/internal/server/responses"
)

const (
	headerGitHubEvent  = "X-GitHub-Event"
	headerSignature256 = "X-Hub-Signature-256"

	maxWebhookBody = 5 << 20
)

// WebhookHandlers contains the GitHub webhook handler. Deliveries are
// verified, classified, and either queued onto the event bus or acknowledged
// as not applicable. The handler never runs a generation inline.
type WebhookHandlers struct {
	secret       string
	bus          *events.Bus
	recorder     metrics.Recorder
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewWebhookHandlers constructs a new WebhookHandlers.
func NewWebhookHandlers(wc config.WebhookConfig, bus *events.Bus, rec metrics.Recorder) *WebhookHandlers {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &WebhookHandlers{
		secret:       wc.Secret,
		bus:          bus,
		recorder:     rec,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleGitHubWebhook receives GitHub webhook deliveries.
//
// Responses: 400 for missing signature or malformed payload, 403 for a
// signature mismatch, 500 (generic) when no secret is configured, 202 for
// every verified delivery whether it triggers a run or not.
func (h *WebhookHandlers) HandleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := derrors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "POST").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		derr := derrors.ValidationError("unreadable webhook body").
			WithContext("error", err.Error()).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, derr)
		h.recorder.IncWebhookEvent("rejected")
		return
	}

	if err := forge.VerifySignature(h.secret, body, r.Header.Get(headerSignature256)); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		h.recorder.IncWebhookEvent("rejected")
		return
	}

	evt, err := forge.ParseWebhookEvent(body)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		h.recorder.IncWebhookEvent("rejected")
		return
	}

	eventType := r.Header.Get(headerGitHubEvent)
	if !forge.ShouldProcess(eventType, evt) {
		slog.Debug("Webhook delivery filtered",
			logfields.EventType(eventType),
			logfields.Action(evt.Action),
			logfields.Repository(evt.Repository.FullName))
		h.recorder.IncWebhookEvent("filtered")
		h.writeAck(w, r, responses.WebhookAck{
			Status:    "ignored",
			Message:   "event does not trigger wiki generation",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	runID := uuid.NewString()
	req := events.GenerationRequested{
		RunID:       runID,
		Trigger:     events.TriggerWebhook,
		Repository:  evt.Repository,
		Branch:      evt.Repository.DefaultBranch,
		RequestedAt: time.Now(),
	}
	if err := h.bus.Publish(r.Context(), req); err != nil {
		derr := derrors.WrapError(err, derrors.CategoryRuntime, "failed to queue generation run").Build()
		h.errorAdapter.WriteErrorResponse(w, r, derr)
		h.recorder.IncWebhookEvent("rejected")
		return
	}

	slog.Info("Webhook delivery accepted",
		logfields.RunID(runID),
		logfields.EventType(eventType),
		logfields.Repository(evt.Repository.FullName))
	h.recorder.IncWebhookEvent("accepted")
	h.writeAck(w, r, responses.WebhookAck{
		Status:    "processing",
		Message:   "wiki generation queued",
		RunID:     runID,
		Timestamp: time.Now().UTC(),
	})
}

func (h *WebhookHandlers) writeAck(w http.ResponseWriter, r *http.Request, ack responses.WebhookAck) {
	if err := writeJSONPretty(w, r, http.StatusAccepted, ack); err != nil {
		derr := derrors.WrapError(err, derrors.CategoryInternal, "failed to write webhook response").Build()
		h.errorAdapter.WriteErrorResponse(w, r, derr)
	}
}
