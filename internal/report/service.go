package report

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/analysis"
	"github.com/fairlens/backend/internal/catalog"
	"github.com/fairlens/backend/internal/narrative"
	"github.com/fairlens/backend/pkg/logger"
)

// Service renders audit results as PDF reports. The narrative client is
// optional; without one the report opens with the static summary.
type Service struct {
	narrative *narrative.Client
}

func NewService(n *narrative.Client) *Service {
	return &Service{narrative: n}
}

// DatasetInfo fills the report's dataset table. It comes from the stored
// metadata, not from re-reading the CSV.
type DatasetInfo struct {
	Filename   string
	Rows       int
	Columns    int
	UploadDate string
}

// Generate renders the full audit report and returns the PDF bytes.
func (s *Service) Generate(ctx context.Context, res *analysis.AnalysisResponse, info DatasetInfo) ([]byte, error) {
	start := time.Now()

	audit := narrative.Audit{
		DatasetName:   info.Filename,
		ProtectedAttr: res.ProtectedAttr,
		TotalMetrics:  res.Summary.TotalMetrics,
		Fair:          res.Summary.Fair,
		Warning:       res.Summary.Warning,
		Violation:     res.Summary.Violation,
		Overall:       res.Summary.OverallAssessment,
	}
	for _, m := range res.Metrics {
		if m.FairnessAssessment == string(catalog.SeverityViolation) {
			audit.Violations = append(audit.Violations, displayName(m))
		}
	}

	execSummary := narrative.StaticExecutiveSummary(audit)
	if s.narrative != nil {
		text, err := s.narrative.ExecutiveSummary(ctx, audit)
		if err != nil {
			logger.Warn("Narrative generation failed, using static summary",
				zap.String("dataset", info.Filename),
				zap.Error(err),
			)
		} else {
			execSummary = text
		}
	}

	builder := newPDFBuilder()
	builder.build(res, info, execSummary)

	var buf bytes.Buffer
	if err := builder.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	logger.Info("Report generated",
		zap.String("dataset", info.Filename),
		zap.Int("metrics", len(res.Metrics)),
		zap.Int("bytes", buf.Len()),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	return buf.Bytes(), nil
}

// Filename names the PDF attachment after the dataset and generation time.
func Filename(datasetName string, now time.Time) string {
	name := strings.TrimSuffix(datasetName, filepath.Ext(datasetName))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "dataset"
	}
	return fmt.Sprintf("fairness_audit_%s_%s.pdf", name, now.Format("20060102_150405"))
}
