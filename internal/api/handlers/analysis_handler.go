package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/analysis"
	"github.com/fairlens/backend/internal/dataset"
	"github.com/fairlens/backend/internal/metrics"
	"github.com/fairlens/backend/pkg/logger"
)

type AnalysisHandler struct {
	orchestrator *analysis.Orchestrator
}

func NewAnalysisHandler(orchestrator *analysis.Orchestrator) *AnalysisHandler {
	return &AnalysisHandler{
		orchestrator: orchestrator,
	}
}

// domainError maps the two expected failure classes onto their status codes.
// Anything else is a server fault and hides the detail.
func domainError(c *fiber.Ctx, err error, action string) error {
	var verr *dataset.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": verr.Error(),
		})
	case errors.Is(err, dataset.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dataset not found",
		})
	default:
		logger.Error("Failed to "+action, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to " + action,
		})
	}
}

func (h *AnalysisHandler) AnalyzeDataset(c *fiber.Ctx) error {
	var req analysis.AnalysisRequest

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

	resp, err := h.orchestrator.Analyze(c.Context(), req)
	if err != nil {
		metrics.AnalysisTotal.WithLabelValues("error").Inc()
		return domainError(c, err, "analyze dataset")
	}

	metrics.AnalysisTotal.WithLabelValues("success").Inc()

	return c.JSON(resp)
}

func (h *AnalysisHandler) CompareDatasets(c *fiber.Ctx) error {
	var req analysis.ComparisonRequest

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.DatasetID1 == "" || req.DatasetID2 == "" || req.ProtectedAttr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "dataset_id_1, dataset_id_2 and protected_attr are required",
		})
	}

	resp, err := h.orchestrator.Compare(c.Context(), req)
	if err != nil {
		metrics.ComparisonTotal.WithLabelValues("error").Inc()
		return domainError(c, err, "compare datasets")
	}

	metrics.ComparisonTotal.WithLabelValues("success").Inc()

	return c.JSON(resp)
}

// GetMetricDefinitions serves the full catalog in canonical order.
func (h *AnalysisHandler) GetMetricDefinitions(c *fiber.Ctx) error {
	return c.JSON(h.orchestrator.Catalog().Definitions())
}

func (h *AnalysisHandler) GetAnalysisHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	datasetID := c.Query("dataset_id")

	records, err := h.orchestrator.History(datasetID, limit)
	if err != nil {
		logger.Error("Failed to load analysis history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analysis history",
		})
	}

	return c.JSON(fiber.Map{
		"analyses": records,
		"count":    len(records),
	})
}
