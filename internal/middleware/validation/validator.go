// Package validation rejects malformed requests before they reach a handler.
package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var analysisPaths = []string{
	"/api/v1/analyze",
	"/api/v1/compare",
	"/api/v1/reports",
}

type Config struct {
	MaxAttrLength       int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware enforces content types on mutating requests and screens the
// protected_attr field on analysis bodies. Required-field checks belong to
// the handlers; this layer rejects only input no handler could accept.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxAttrLength <= 0 {
		cfg.MaxAttrLength = 256
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{fiber.MIMEApplicationJSON, fiber.MIMEMultipartForm}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
			contentType := c.Get(fiber.HeaderContentType)
			if contentType != "" && !allowedType(contentType, cfg.AllowedContentTypes) {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
					"error": "Unsupported content type",
				})
			}
		}

		if c.Method() == fiber.MethodPost && isAnalysisPath(c.Path()) {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid request body",
				})
			}

			if attr, ok := req["protected_attr"].(string); ok {
				if len(attr) > cfg.MaxAttrLength {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "protected_attr exceeds maximum length",
					})
				}
				if hasControlChars(attr) {
					cfg.Logger.Warn("Rejected protected attribute",
						zap.String("ip", c.IP()),
						zap.String("path", c.Path()),
					)
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "protected_attr contains invalid characters",
					})
				}
			}
		}

		return c.Next()
	}
}

func allowedType(contentType string, types []string) bool {
	for _, t := range types {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

func isAnalysisPath(path string) bool {
	for _, p := range analysisPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
