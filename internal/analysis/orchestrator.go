// Package analysis runs the full audit pipeline: load a dataset, compute
// every requested metric, grade each against the catalog, and aggregate.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/cache/redis"
	"github.com/fairlens/backend/internal/catalog"
	"github.com/fairlens/backend/internal/dataset"
	"github.com/fairlens/backend/internal/fairness"
	"github.com/fairlens/backend/internal/metrics"
	"github.com/fairlens/backend/internal/storage/models"
	"github.com/fairlens/backend/internal/storage/sqlite"
	"github.com/fairlens/backend/pkg/logger"
	"github.com/fairlens/backend/pkg/utils"
)

type AnalysisRequest struct {
	DatasetID     string `json:"dataset_id"`
	ProtectedAttr string `json:"protected_attr"`
	MetricName    string `json:"metric_name,omitempty"`
}

type ComparisonRequest struct {
	DatasetID1    string `json:"dataset_id_1"`
	DatasetID2    string `json:"dataset_id_2"`
	ProtectedAttr string `json:"protected_attr"`
}

// Orchestrator owns one dataset repository and one catalog. The sqlite and
// redis clients are optional; without them runs are simply not recorded or
// cached.
type Orchestrator struct {
	repo     dataset.Repository
	catalog  *catalog.Catalog
	db       *sqlite.Client
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewOrchestrator(repo dataset.Repository, cat *catalog.Catalog, db *sqlite.Client, cache *redis.Client, cacheTTL time.Duration) *Orchestrator {
	return &Orchestrator{
		repo:     repo,
		catalog:  cat,
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Catalog exposes the injected catalog for the definitions endpoint.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// Analyze runs the audit and serves repeated identical requests from cache.
func (o *Orchestrator) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	hash := requestHash(req.ProtectedAttr, req.MetricName)

	if o.cache != nil {
		var cached AnalysisResponse
		hit, err := o.cache.GetAnalysis(ctx, req.DatasetID, hash, &cached)
		if err != nil {
			logger.Warn("Analysis cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("analysis").Inc()
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("analysis").Inc()
	}

	resp, err := o.run(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.SetAnalysis(ctx, req.DatasetID, hash, resp, o.cacheTTL); err != nil {
			logger.Warn("Failed to cache analysis", zap.Error(err))
		}
	}
	return resp, nil
}

// AnalyzeEach runs the audit without consulting the cache and hands each
// metric report to fn as it is graded. A nil fn skips the callbacks.
func (o *Orchestrator) AnalyzeEach(ctx context.Context, req AnalysisRequest, fn func(MetricReport)) (*AnalysisResponse, error) {
	return o.run(ctx, req, fn)
}

func (o *Orchestrator) run(ctx context.Context, req AnalysisRequest, fn func(MetricReport)) (*AnalysisResponse, error) {
	start := time.Now()

	kinds := fairness.Kinds()
	if req.MetricName != "" {
		kind, ok := fairness.ParseKind(req.MetricName)
		if !ok {
			return nil, dataset.NewValidationError("unknown metric '%s'", req.MetricName)
		}
		kinds = []fairness.Kind{kind}
	}

	frame, _, err := o.repo.Get(req.DatasetID)
	if err != nil {
		return nil, err
	}
	if err := dataset.ValidateProtectedAttribute(frame, req.ProtectedAttr); err != nil {
		return nil, err
	}

	engine, err := fairness.NewEngine(frame, req.ProtectedAttr)
	if err != nil {
		return nil, fmt.Errorf("failed to build metric engine: %w", err)
	}

	logger.Info("Analysis started",
		zap.String("dataset_id", req.DatasetID),
		zap.String("protected_attr", req.ProtectedAttr),
		zap.Int("metrics", len(kinds)),
	)

	resp := &AnalysisResponse{
		DatasetID:     req.DatasetID,
		ProtectedAttr: req.ProtectedAttr,
		Metrics:       make([]MetricReport, 0, len(kinds)),
	}
	for _, kind := range kinds {
		report := o.report(engine.Compute(kind))
		resp.Metrics = append(resp.Metrics, report)
		metrics.MetricSeverity.WithLabelValues(report.MetricName, report.FairnessAssessment).Inc()
		if fn != nil {
			fn(report)
		}
	}
	resp.Summary = summarize(resp.Metrics)

	metrics.AnalysisDuration.WithLabelValues(req.ProtectedAttr).Observe(time.Since(start).Seconds())
	latency := int(time.Since(start).Milliseconds())
	o.record(req, resp, latency)

	logger.Info("Analysis completed",
		zap.String("dataset_id", req.DatasetID),
		zap.String("overall", resp.Summary.OverallAssessment),
		zap.Int("latency_ms", latency),
	)
	return resp, nil
}

// Compare grades every metric on two datasets and labels the movement from
// the first to the second.
func (o *Orchestrator) Compare(ctx context.Context, req ComparisonRequest) (*ComparisonResponse, error) {
	hash := requestHash(req.ProtectedAttr, "")

	if o.cache != nil {
		var cached ComparisonResponse
		hit, err := o.cache.GetComparison(ctx, req.DatasetID1, req.DatasetID2, hash, &cached)
		if err != nil {
			logger.Warn("Comparison cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("comparison").Inc()
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("comparison").Inc()
	}

	frame1, meta1, err := o.repo.Get(req.DatasetID1)
	if err != nil {
		return nil, err
	}
	frame2, meta2, err := o.repo.Get(req.DatasetID2)
	if err != nil {
		return nil, err
	}

	for _, frame := range []*dataset.Frame{frame1, frame2} {
		if err := dataset.ValidateProtectedAttribute(frame, req.ProtectedAttr); err != nil {
			return nil, err
		}
	}

	engine1, err := fairness.NewEngine(frame1, req.ProtectedAttr)
	if err != nil {
		return nil, fmt.Errorf("failed to build metric engine: %w", err)
	}
	engine2, err := fairness.NewEngine(frame2, req.ProtectedAttr)
	if err != nil {
		return nil, fmt.Errorf("failed to build metric engine: %w", err)
	}

	logger.Info("Comparison started",
		zap.String("dataset_id_1", req.DatasetID1),
		zap.String("dataset_id_2", req.DatasetID2),
		zap.String("protected_attr", req.ProtectedAttr),
	)

	resp := &ComparisonResponse{
		Dataset1:      meta1.Filename,
		Dataset2:      meta2.Filename,
		ProtectedAttr: req.ProtectedAttr,
	}
	for _, kind := range fairness.Kinds() {
		res1 := engine1.Compute(kind)
		res2 := engine2.Compute(kind)
		value1 := fairness.Reduce(res1)
		value2 := fairness.Reduce(res2)
		sev1 := o.severity(res1, value1)
		sev2 := o.severity(res2, value2)

		displayName := string(kind)
		if def, ok := o.catalog.Definition(kind); ok {
			displayName = def.DisplayName
		}

		resp.MetricsComparison = append(resp.MetricsComparison, ComparisonRow{
			MetricName:         string(kind),
			MetricDisplayName:  displayName,
			Dataset1Value:      value1,
			Dataset2Value:      value2,
			Dataset1Assessment: string(sev1),
			Dataset2Assessment: string(sev2),
			Change:             changeLabel(sev1, sev2),
		})
	}

	summary := ComparisonSummary{TotalMetrics: len(resp.MetricsComparison)}
	for _, row := range resp.MetricsComparison {
		switch row.Change {
		case "improved":
			summary.Improved++
		case "worsened":
			summary.Worsened++
		default:
			summary.Unchanged++
		}
	}
	switch {
	case summary.Improved > summary.Worsened:
		summary.Overall = "Improved"
	case summary.Worsened > summary.Improved:
		summary.Overall = "Worsened"
	default:
		summary.Overall = "Similar"
	}
	resp.Summary = summary

	if o.cache != nil {
		if err := o.cache.SetComparison(ctx, req.DatasetID1, req.DatasetID2, hash, resp, o.cacheTTL); err != nil {
			logger.Warn("Failed to cache comparison", zap.Error(err))
		}
	}
	return resp, nil
}

// History lists past analysis runs, newest first. An empty datasetID lists
// runs across all datasets.
func (o *Orchestrator) History(datasetID string, limit int) ([]models.AnalysisRecord, error) {
	if o.db == nil {
		return []models.AnalysisRecord{}, nil
	}
	return o.db.GetAnalysisHistory(datasetID, limit)
}

func (o *Orchestrator) severity(res fairness.Result, value float64) catalog.Severity {
	if res.Unavailable || res.Err != "" {
		return catalog.SeverityUnknown
	}
	return o.catalog.Classify(res.Kind, value)
}

func (o *Orchestrator) record(req AnalysisRequest, resp *AnalysisResponse, latencyMS int) {
	if o.db == nil {
		return
	}
	rec := &models.AnalysisRecord{
		ID:            uuid.New().String(),
		DatasetID:     req.DatasetID,
		ProtectedAttr: req.ProtectedAttr,
		TotalMetrics:  resp.Summary.TotalMetrics,
		Fair:          resp.Summary.Fair,
		Warning:       resp.Summary.Warning,
		Violation:     resp.Summary.Violation,
		Overall:       resp.Summary.OverallAssessment,
		LatencyMS:     latencyMS,
		CreatedAt:     time.Now(),
	}
	if err := o.db.InsertAnalysisRecord(rec); err != nil {
		logger.Warn("Failed to record analysis", zap.Error(err))
	}
}

func requestHash(protectedAttr, metricName string) string {
	return utils.HashString(protectedAttr + ":" + metricName)
}
