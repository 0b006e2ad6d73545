package telemetry

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohammad-safakhou/reportgen/config"
)

// Telemetry records pipeline activity as prometheus metrics and log lines.
// A nil *Telemetry is valid and records nothing.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger

	llmRequests    *prometheus.CounterVec
	searchRequests *prometheus.CounterVec
	reportRuns     *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	searchResults  prometheus.Histogram
}

// NewTelemetry creates a new telemetry instance registering its collectors
// on the given registerer (pass prometheus.DefaultRegisterer in production).
func NewTelemetry(cfg config.TelemetryConfig, reg prometheus.Registerer) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		llmRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reportgen_llm_requests_total",
			Help: "Chat completion calls by pipeline stage and outcome.",
		}, []string{"stage", "outcome"}),
		searchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reportgen_search_requests_total",
			Help: "Web search calls by outcome.",
		}, []string{"outcome"}),
		reportRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reportgen_report_runs_total",
			Help: "Report pipeline runs by outcome.",
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reportgen_stage_duration_seconds",
			Help:    "Wall-clock duration of each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"stage"}),
		searchResults: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reportgen_search_results",
			Help:    "Result count per web search call.",
			Buckets: prometheus.LinearBuckets(0, 2, 6),
		}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordLLMCall records one chat completion call for a stage.
func (t *Telemetry) RecordLLMCall(stage string, duration time.Duration, err error) {
	if t == nil {
		return
	}
	t.llmRequests.WithLabelValues(stage, outcome(err)).Inc()
	if err != nil && t.config.Enabled {
		t.logger.Printf("LLM call failed: stage=%s duration=%v err=%v", stage, duration, err)
	}
}

// RecordSearch records one web search call and its result count.
func (t *Telemetry) RecordSearch(duration time.Duration, results int, err error) {
	if t == nil {
		return
	}
	t.searchRequests.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		t.searchResults.Observe(float64(results))
	} else if t.config.Enabled {
		t.logger.Printf("search failed: duration=%v err=%v", duration, err)
	}
}

// RecordStage records the duration of one completed pipeline stage.
func (t *Telemetry) RecordStage(stage string, duration time.Duration) {
	if t == nil {
		return
	}
	t.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRun records one completed pipeline run.
func (t *Telemetry) RecordRun(duration time.Duration, err error) {
	if t == nil {
		return
	}
	t.reportRuns.WithLabelValues(outcome(err)).Inc()
	if t.config.Enabled {
		t.logger.Printf("report run finished: success=%t duration=%v", err == nil, duration)
	}
}
