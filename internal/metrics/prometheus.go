package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fairlens_analysis_duration_seconds",
			Help:    "Fairness analysis duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"protected_attr"},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_analysis_total",
			Help: "Total number of fairness analyses run",
		},
		[]string{"status"},
	)

	ComparisonTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_comparison_total",
			Help: "Total number of dataset comparisons run",
		},
		[]string{"status"},
	)

	MetricSeverity = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_metric_severity_total",
			Help: "Graded metric outcomes by severity",
		},
		[]string{"metric", "severity"},
	)

	UploadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_upload_total",
			Help: "Total dataset uploads",
		},
		[]string{"status"},
	)

	DatasetRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fairlens_dataset_rows",
			Help:    "Row counts of uploaded datasets",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		},
	)

	DatasetsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fairlens_datasets_active",
			Help: "Number of datasets currently stored",
		},
	)

	ReportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_reports_generated_total",
			Help: "Total PDF audit reports generated",
		},
		[]string{"status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	WSConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fairlens_ws_connections_active",
			Help: "Open websocket analysis streams",
		},
	)

	NarrativeTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fairlens_narrative_tokens_used",
			Help: "Total narrative generation tokens used",
		},
		[]string{"model", "type"},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(ComparisonTotal)
	prometheus.MustRegister(MetricSeverity)
	prometheus.MustRegister(UploadTotal)
	prometheus.MustRegister(DatasetRows)
	prometheus.MustRegister(DatasetsActive)
	prometheus.MustRegister(ReportsGenerated)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(WSConnectionsActive)
	prometheus.MustRegister(NarrativeTokensUsed)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
