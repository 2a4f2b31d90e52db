package events

import (
	"time"

	"github.com/alexsohr/autodoc/internal/forge"
)

// Trigger identifies what started a generation run.
type Trigger string

const (
	TriggerWebhook  Trigger = "webhook"
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// GenerationRequested asks for a wiki generation run for one repository.
//
// This is an orchestration event used by the daemon's in-process control flow.
// It is not durable; the run outcome is what lands in internal/eventstore.
type GenerationRequested struct {
	RunID       string
	Trigger     Trigger
	Repository  forge.Repository
	Branch      string
	RequestedAt time.Time
}

// RunCompleted is emitted after a generation run finishes, whatever the outcome.
type RunCompleted struct {
	RunID       string
	Repository  string
	Status      string
	PagesTotal  int
	PagesFailed int
	Artifact    string
	CompletedAt time.Time
}
