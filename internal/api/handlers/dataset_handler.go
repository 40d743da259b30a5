package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/cache/redis"
	"github.com/fairlens/backend/internal/dataset"
	"github.com/fairlens/backend/internal/metrics"
	"github.com/fairlens/backend/pkg/logger"
)

type DatasetHandler struct {
	store *dataset.Store
	cache *redis.Client
}

// NewDatasetHandler wires the dataset endpoints. The cache client may be nil
// when Redis is disabled.
func NewDatasetHandler(store *dataset.Store, cache *redis.Client) *DatasetHandler {
	return &DatasetHandler{
		store: store,
		cache: cache,
	}
}

func (h *DatasetHandler) UploadDataset(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided",
		})
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		metrics.UploadTotal.WithLabelValues("rejected").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only CSV files are supported",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	frame, err := dataset.ParseCSV(file)
	if err != nil {
		metrics.UploadTotal.WithLabelValues("rejected").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Error parsing CSV: %v", err),
		})
	}

	if !frame.HasColumn("shortlisted") {
		metrics.UploadTotal.WithLabelValues("rejected").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required column: shortlisted",
		})
	}

	frame.DeriveAgeGroups()

	meta, err := h.store.Put(frame, fileHeader.Filename)
	if err != nil {
		logger.Error("Failed to store dataset", zap.Error(err))
		metrics.UploadTotal.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store dataset",
		})
	}

	metrics.UploadTotal.WithLabelValues("success").Inc()
	metrics.DatasetRows.Observe(float64(meta.Rows))
	metrics.DatasetsActive.Inc()

	return c.JSON(meta)
}

func (h *DatasetHandler) GetDataset(c *fiber.Ctx) error {
	id := c.Params("id")
	rows := c.QueryInt("rows", 100)

	frame, meta, err := h.store.Get(id)
	if err != nil {
		return domainError(c, err, "retrieve dataset")
	}

	return c.JSON(fiber.Map{
		"dataset_id": meta.DatasetID,
		"filename":   meta.Filename,
		"rows":       meta.Rows,
		"columns":    meta.Columns,
		"data":       frame.Preview(rows),
		"statistics": frame.Statistics(),
	})
}

func (h *DatasetHandler) ListDatasets(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	datasets, err := h.store.List(limit)
	if err != nil {
		logger.Error("Failed to list datasets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list datasets",
		})
	}

	return c.JSON(fiber.Map{
		"datasets": datasets,
		"count":    len(datasets),
	})
}

// DeleteDataset removes the dataset and drops any cached analyses that were
// computed from it. Deleting an unknown id still succeeds.
func (h *DatasetHandler) DeleteDataset(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.store.Delete(id); err != nil {
		logger.Error("Failed to delete dataset",
			zap.String("dataset_id", id),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete dataset",
		})
	}

	if h.cache != nil {
		if err := h.cache.InvalidateDataset(c.Context(), id); err != nil {
			logger.Warn("Failed to invalidate cached analyses",
				zap.String("dataset_id", id),
				zap.Error(err),
			)
		}
	}

	metrics.DatasetsActive.Dec()

	return c.JSON(fiber.Map{
		"message": "Dataset deleted successfully",
	})
}
