package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	runDuration    prom.Histogram
	stageDuration  *prom.HistogramVec
	pageDuration   prom.Histogram
	runOutcomes    *prom.CounterVec
	pageResults    *prom.CounterVec
	webhookEvents  *prom.CounterVec
	pageRetries    prom.Counter
	retryExhausted prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "autodoc",
			Name:      "run_duration_seconds",
			Help:      "Total wiki generation run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "autodoc",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.pageDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "autodoc",
			Name:      "page_duration_seconds",
			Help:      "Duration of individual page content generations",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "autodoc",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"status"})
		pr.pageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "autodoc",
			Name:      "page_results_total",
			Help:      "Page generation results by outcome",
		}, []string{"result"})
		pr.webhookEvents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "autodoc",
			Name:      "webhook_events_total",
			Help:      "Inbound webhook deliveries by outcome",
		}, []string{"outcome"})
		pr.pageRetries = prom.NewCounter(prom.CounterOpts{
			Namespace: "autodoc",
			Name:      "page_retries_total",
			Help:      "Total page generation retries (transient failures)",
		})
		pr.retryExhausted = prom.NewCounter(prom.CounterOpts{
			Namespace: "autodoc",
			Name:      "page_retry_exhausted_total",
			Help:      "Count of pages where retries were exhausted",
		})
		reg.MustRegister(pr.runDuration, pr.stageDuration, pr.pageDuration, pr.runOutcomes, pr.pageResults, pr.webhookEvents, pr.pageRetries, pr.retryExhausted)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePageDuration(d time.Duration) {
	if p == nil || p.pageDuration == nil {
		return
	}
	p.pageDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(status string) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncPageResult(result ResultLabel) {
	if p == nil || p.pageResults == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncWebhookEvent(outcome string) {
	if p == nil || p.webhookEvents == nil {
		return
	}
	p.webhookEvents.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncPageRetry() {
	if p == nil || p.pageRetries == nil {
		return
	}
	p.pageRetries.Inc()
}

func (p *PrometheusRecorder) IncPageRetryExhausted() {
	if p == nil || p.retryExhausted == nil {
		return
	}
	p.retryExhausted.Inc()
}
