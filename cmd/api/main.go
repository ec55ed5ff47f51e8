package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/lendtrack-api/docs" // Swagger docs
	"github.com/sjperalta/lendtrack-api/internal/config"
	"github.com/sjperalta/lendtrack-api/internal/handlers"
	"github.com/sjperalta/lendtrack-api/internal/jobs"
	"github.com/sjperalta/lendtrack-api/internal/middleware"
	"github.com/sjperalta/lendtrack-api/internal/services"
	"github.com/sjperalta/lendtrack-api/internal/statemachine"
	"github.com/sjperalta/lendtrack-api/internal/storage"
	"github.com/sjperalta/lendtrack-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title LendTrack API
// @version 1.0
// @description REST API for the LendTrack loan tracking backend

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the file store; it is both the fallback backend and the
	// only backend when no database is configured
	fileStore, err := storage.NewFileStore(cfg.DataFilePath)
	if err != nil {
		logger.Error("Failed to initialize file store", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized file store", "path", cfg.DataFilePath)

	// Try the database backend when configured. A connection failure here
	// is not fatal: the selector simply starts file-active.
	var dbStore storage.BorrowerStore
	var mongoStore *storage.MongoStore
	if !cfg.FileOnly() {
		connectTimeout := time.Duration(cfg.ConnectTimeoutSec) * time.Second
		mongoStore, err = storage.NewMongoStore(context.Background(), cfg.MongoURI, cfg.DatabaseName, connectTimeout)
		if err != nil {
			logger.Warn("Database unreachable at startup, running on the file store", "error", err)
		} else {
			dbStore = mongoStore
			logger.Info("Connected to database", "database", cfg.DatabaseName)
		}
	} else {
		logger.Info("No database configured, running in file-only mode")
	}

	selector := statemachine.NewBackendSelector(dbStore, fileStore)
	logger.Info("Storage backend selected", "backend", selector.State())

	// Initialize services
	svcs := services.NewServices(selector)

	// Background worker for maintenance jobs
	worker := jobs.NewWorker(cfg.WorkerCount)
	scheduleJobs(worker, svcs, fileStore, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, selector)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if mongoStore != nil {
		if err := mongoStore.Close(ctx); err != nil {
			logger.Error("Failed to disconnect from database", "error", err)
		}
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)

		borrowers := v1.Group("/borrowers")
		{
			borrowers.GET("", h.Borrower.Index)
			borrowers.POST("", h.Borrower.Create)
			borrowers.GET("/:borrower_id", h.Borrower.Show)
			borrowers.PUT("/:borrower_id", h.Borrower.Update)
			borrowers.DELETE("/:borrower_id", h.Borrower.Delete)
			borrowers.GET("/:borrower_id/statement_pdf", h.Report.StatementPDF)
		}

		v1.GET("/reports/borrowers_csv", h.Report.BorrowersCSV)
		v1.GET("/reports/borrowers_xlsx", h.Report.BorrowersXLSX)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, fileStore *storage.FileStore, cfg *config.Config) {
	// Verify cached balances against history every 6 hours
	worker.ScheduleEvery(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Auditing cached balances...")
		_, err := svcs.Borrower.AuditBalances(ctx)
		return err
	})

	// Snapshot the data file daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Backing up data file...")
		path, err := fileStore.Snapshot(cfg.BackupDir)
		if err != nil {
			return err
		}
		if path != "" {
			logger.Info("[Job] Data file backed up", "path", path)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
