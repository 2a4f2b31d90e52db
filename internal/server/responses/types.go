// Package responses defines API response types used by AutoDoc HTTP handlers.
package responses

import "time"

// WebhookAck acknowledges an inbound webhook delivery. Accepted deliveries
// are processed asynchronously; Status distinguishes queued runs from
// deliveries that were valid but not applicable.
type WebhookAck struct {
	Status    string    `json:"status"` // processing|ignored
	Message   string    `json:"message"`
	RunID     string    `json:"run_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

// RunInfo represents one recorded generation run.
type RunInfo struct {
	RunID       string    `json:"run_id"`
	Repository  string    `json:"repository"`
	Trigger     string    `json:"trigger"`
	Status      string    `json:"status"`
	PagesTotal  int       `json:"pages_total"`
	PagesFailed int       `json:"pages_failed"`
	Error       string    `json:"error,omitempty"`
	Artifact    string    `json:"artifact,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// RunHistoryResponse represents the run history API response.
type RunHistoryResponse struct {
	Status    string    `json:"status"`
	Runs      []RunInfo `json:"runs"`
	Timestamp time.Time `json:"timestamp"`
}
