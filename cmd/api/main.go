package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/analysis"
	"github.com/fairlens/backend/internal/api/handlers"
	"github.com/fairlens/backend/internal/cache/redis"
	"github.com/fairlens/backend/internal/catalog"
	"github.com/fairlens/backend/internal/dataset"
	"github.com/fairlens/backend/internal/metrics"
	"github.com/fairlens/backend/internal/middleware/ratelimit"
	"github.com/fairlens/backend/internal/middleware/security"
	"github.com/fairlens/backend/internal/middleware/validation"
	"github.com/fairlens/backend/internal/narrative"
	"github.com/fairlens/backend/internal/report"
	"github.com/fairlens/backend/internal/storage/sqlite"
	"github.com/fairlens/backend/pkg/config"
	appLogger "github.com/fairlens/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting FairLens API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	store, err := dataset.NewStore(cfg.Storage.UploadDir, sqliteClient)
	if err != nil {
		appLogger.Fatal("Failed to create dataset store", zap.Error(err))
	}

	// SQLite treats LIMIT -1 as unlimited.
	if known, err := store.List(-1); err == nil {
		metrics.DatasetsActive.Set(float64(len(known)))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
		)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer cacheClient.Close()
	}

	cat := catalog.Default()
	if cfg.Catalog.OverridePath != "" {
		cat, err = catalog.Load(cfg.Catalog.OverridePath)
		if err != nil {
			appLogger.Fatal("Failed to load catalog overrides", zap.Error(err))
		}
		appLogger.Info("Catalog overrides loaded", zap.String("path", cfg.Catalog.OverridePath))
	}

	orchestrator := analysis.NewOrchestrator(
		store,
		cat,
		sqliteClient,
		cacheClient,
		time.Duration(cfg.Redis.TTLSec)*time.Second,
	)

	var narrativeClient *narrative.Client
	if cfg.Narrative.Enabled {
		narrativeClient = narrative.NewClient(
			cfg.Narrative.APIKey,
			cfg.Narrative.Model,
			cfg.Narrative.Temperature,
			cfg.Narrative.MaxTokens,
			time.Duration(cfg.Narrative.TimeoutSec)*time.Second,
		)
	}

	reportService := report.NewService(narrativeClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.Headers())

	datasetHandler := handlers.NewDatasetHandler(store, cacheClient)
	analysisHandler := handlers.NewAnalysisHandler(orchestrator)
	reportHandler := handlers.NewReportHandler(orchestrator, reportService, store)
	wsHandler := handlers.NewWebSocketHandler(orchestrator)

	api := app.Group("/api/v1")

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(ratelimit.Config{
			MaxRequestsPerMinute: cfg.RateLimit.PerMinute,
			Logger:               appLogger.GetLogger(),
		})
		defer limiter.Stop()
		api.Use(limiter.Middleware())
	}
	api.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	api.Post("/upload", datasetHandler.UploadDataset)
	api.Get("/datasets", datasetHandler.ListDatasets)
	api.Get("/dataset/:id", datasetHandler.GetDataset)
	api.Delete("/dataset/:id", datasetHandler.DeleteDataset)

	api.Post("/analyze", analysisHandler.AnalyzeDataset)
	api.Post("/compare", analysisHandler.CompareDatasets)
	api.Get("/metrics", analysisHandler.GetMetricDefinitions)
	api.Get("/analyses", analysisHandler.GetAnalysisHistory)

	api.Post("/reports", reportHandler.GenerateReport)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws/analyze", websocket.New(wsHandler.HandleConnection))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		if err := sqliteClient.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
