package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	analysisStartedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "document_analysis_started_total",
		Help: "Total document analyses started",
	})
	analysisCompletedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "document_analysis_completed_total",
		Help: "Total document analyses completed",
	})
	analysisFailedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "document_analysis_failed_total",
		Help: "Total document analyses failed",
	})
	analysisDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_analysis_duration_ms",
		Help:    "Document analysis duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
	analysisJobsReceived = factory.NewCounter(prometheus.CounterOpts{
		Name: "document_analysis_jobs_received_total",
		Help: "Analysis jobs received from the queue",
	})
	analysisJobsCompleted = factory.NewCounter(prometheus.CounterOpts{
		Name: "document_analysis_jobs_completed_total",
		Help: "Analysis jobs processed and deleted from the queue",
	})
	analysisJobsFailed = factory.NewCounter(prometheus.CounterOpts{
		Name: "document_analysis_jobs_failed_total",
		Help: "Analysis jobs left on the queue for redelivery",
	})
	analysisJobsUnrecoverable = factory.NewCounter(prometheus.CounterOpts{
		Name: "document_analysis_jobs_deleted_unrecoverable_total",
		Help: "Queue messages deleted because they could never be processed",
	})
	providerDegradedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_degraded_total",
		Help: "Responses served from the degraded path, by provider",
	}, []string{"provider"})
	newsCacheTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "news_cache_requests_total",
		Help: "News cache lookups by result",
	}, []string{"result"})
	orphansRemovedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "orphan_files_removed_total",
		Help: "Stored files removed by the orphan sweep",
	})
)

func init() {
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStartedTotal.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompletedTotal.Inc()
}

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed() {
	analysisFailedTotal.Inc()
}

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

func IncAnalysisJobsReceived() {
	analysisJobsReceived.Inc()
}

func IncAnalysisJobsCompleted() {
	analysisJobsCompleted.Inc()
}

func IncAnalysisJobsFailed() {
	analysisJobsFailed.Inc()
}

func IncAnalysisJobsDeletedUnrecoverable() {
	analysisJobsUnrecoverable.Inc()
}

// IncProviderDegraded counts a degraded response for "llm" or "search".
func IncProviderDegraded(provider string) {
	providerDegradedTotal.WithLabelValues(provider).Inc()
}

// IncNewsCache counts a news cache lookup; result is "hit" or "miss".
func IncNewsCache(result string) {
	newsCacheTotal.WithLabelValues(result).Inc()
}

func AddOrphansRemoved(n int) {
	if n > 0 {
		orphansRemovedTotal.Add(float64(n))
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// Registry returns the registry backing Handler.
func Registry() *prometheus.Registry {
	return registry
}
