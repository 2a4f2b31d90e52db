package metrics

import "time"

// ResultLabel enumerates page generation result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for pipeline runs and page generation.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	ObservePageDuration(d time.Duration)
	IncRunOutcome(status string) // status: ok|error|config_error|validation_error|transport_error|parse_error
	IncPageResult(result ResultLabel)
	IncWebhookEvent(outcome string) // outcome: accepted|filtered|rejected
	IncPageRetry()
	IncPageRetryExhausted()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObservePageDuration(time.Duration)          {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) IncPageResult(ResultLabel)                  {}
func (NoopRecorder) IncWebhookEvent(string)                     {}
func (NoopRecorder) IncPageRetry()                              {}
func (NoopRecorder) IncPageRetryExhausted()                     {}
