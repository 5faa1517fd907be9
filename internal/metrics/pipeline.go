package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Name:      "pipeline_runs_total",
			Help:      "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"}, // "complete" / "error" / "cancelled"
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insight",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Per-stage pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		},
		[]string{"stage"},
	)

	PipelineBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "insight",
			Name:      "pipeline_batch_size",
			Help:      "Number of valid items per analyzed batch",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	PipelineItemsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Name:      "pipeline_items_rejected_total",
			Help:      "Feedback items rejected during validation, by reason",
		},
		[]string{"reason"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(PipelineBatchSize)
	prometheus.MustRegister(PipelineItemsRejected)
	pipelineMetricsRegistered = true
}
