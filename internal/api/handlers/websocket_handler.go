package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/analysis"
	"github.com/fairlens/backend/internal/dataset"
	"github.com/fairlens/backend/internal/metrics"
	"github.com/fairlens/backend/pkg/logger"
)

type WebSocketHandler struct {
	orchestrator *analysis.Orchestrator
}

func NewWebSocketHandler(orchestrator *analysis.Orchestrator) *WebSocketHandler {
	return &WebSocketHandler{
		orchestrator: orchestrator,
	}
}

// HandleConnection serves one analysis stream per "analyze" message: a
// status frame, one frame per computed metric, then the summary frame.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")
	metrics.WSConnectionsActive.Inc()

	defer func() {
		metrics.WSConnectionsActive.Dec()
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type          string `json:"type"`
			DatasetID     string `json:"dataset_id"`
			ProtectedAttr string `json:"protected_attr"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "analyze" {
			continue
		}

		logger.Info("Processing WebSocket analysis",
			zap.String("dataset_id", msg.DatasetID),
			zap.String("protected_attr", msg.ProtectedAttr),
		)

		err = h.streamAnalysis(c, msg.DatasetID, msg.ProtectedAttr)
		if err != nil {
			logger.Error("Failed to stream analysis", zap.Error(err))
			h.sendError(c, streamErrorMessage(err))
		}
	}
}

func (h *WebSocketHandler) streamAnalysis(c *websocket.Conn, datasetID, protectedAttr string) error {
	ctx := context.Background()

	req := analysis.AnalysisRequest{
		DatasetID:     datasetID,
		ProtectedAttr: protectedAttr,
	}

	err := c.WriteJSON(map[string]interface{}{
		"type":    "status",
		"message": "Analysis started",
	})
	if err != nil {
		return err
	}

	var writeErr error
	resp, err := h.orchestrator.AnalyzeEach(ctx, req, func(m analysis.MetricReport) {
		if writeErr != nil {
			return
		}
		writeErr = c.WriteJSON(map[string]interface{}{
			"type":   "metric",
			"metric": m,
		})
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	return c.WriteJSON(map[string]interface{}{
		"type":    "summary",
		"summary": resp.Summary,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}

// streamErrorMessage keeps user-input failures verbatim and hides the rest.
func streamErrorMessage(err error) string {
	var verr *dataset.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, dataset.ErrNotFound):
		return "Dataset not found"
	default:
		return "Failed to analyze dataset"
	}
}
