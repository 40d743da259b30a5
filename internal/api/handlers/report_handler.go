package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/analysis"
	"github.com/fairlens/backend/internal/dataset"
	"github.com/fairlens/backend/internal/metrics"
	"github.com/fairlens/backend/internal/report"
	"github.com/fairlens/backend/pkg/logger"
)

type ReportHandler struct {
	orchestrator *analysis.Orchestrator
	reports      *report.Service
	store        *dataset.Store
}

func NewReportHandler(orchestrator *analysis.Orchestrator, reports *report.Service, store *dataset.Store) *ReportHandler {
	return &ReportHandler{
		orchestrator: orchestrator,
		reports:      reports,
		store:        store,
	}
}

// GenerateReport runs a full audit and streams it back as a PDF attachment.
func (h *ReportHandler) GenerateReport(c *fiber.Ctx) error {
	var req struct {
		DatasetID     string `json:"dataset_id"`
		ProtectedAttr string `json:"protected_attr"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.DatasetID == "" || req.ProtectedAttr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "dataset_id and protected_attr are required",
		})
	}

	_, meta, err := h.store.Get(req.DatasetID)
	if err != nil {
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		return domainError(c, err, "generate report")
	}

	// A cached response has been through JSON and no longer carries the
	// typed metric values the renderer switches on, so reports re-run the
	// audit every time.
	res, err := h.orchestrator.AnalyzeEach(c.Context(), analysis.AnalysisRequest{
		DatasetID:     req.DatasetID,
		ProtectedAttr: req.ProtectedAttr,
	}, nil)
	if err != nil {
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		return domainError(c, err, "generate report")
	}

	pdf, err := h.reports.Generate(c.Context(), res, report.DatasetInfo{
		Filename:   meta.Filename,
		Rows:       meta.Rows,
		Columns:    meta.Columns,
		UploadDate: meta.UploadDate,
	})
	if err != nil {
		logger.Error("Failed to render report", zap.Error(err))
		metrics.ReportsGenerated.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render report",
		})
	}

	metrics.ReportsGenerated.WithLabelValues("success").Inc()

	c.Attachment(report.Filename(meta.Filename, time.Now()))
	return c.Send(pdf)
}
