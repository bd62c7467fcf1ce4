package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhima/wx-api/internal/api/handlers"
	"github.com/dhima/wx-api/internal/api/middleware"
	"github.com/dhima/wx-api/internal/api/response"
	"github.com/dhima/wx-api/internal/forecast"
	"github.com/dhima/wx-api/internal/geocoding"
	"github.com/dhima/wx-api/internal/logging"
	"github.com/dhima/wx-api/internal/lookup"
	"github.com/dhima/wx-api/internal/scheduler"
	"github.com/dhima/wx-api/internal/storage"
	"github.com/dhima/wx-api/internal/tracing"
	"github.com/dhima/wx-api/internal/upstream"
	"github.com/dhima/wx-api/pkg/config"
	"github.com/dhima/wx-api/platform/events"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Version is reported by /health and attached to traces.
const Version = "1.0.0"

const serviceName = "wx-api"

// Server orchestrates HTTP routing and dependencies for the API service.
type Server struct {
	config config.App
	logger logging.Logger
	router *gin.Engine
	db     *sql.DB

	store         *storage.SQLClient
	lookupService *lookup.Service
	publisher     *events.Publisher
	reaper        *scheduler.Engine

	shutdownTracing tracing.ShutdownFunc
}

// NewServer wires the API dependencies together from the environment.
func NewServer() *Server {
	cfg := config.FromEnv()

	// Initialize logger
	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	shutdownTracing, err := tracing.Init(cfg.ZipkinURL, serviceName, Version)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	db := connectDatabase(cfg, logger)

	server, err := New(cfg, logger, db)
	if err != nil {
		logger.Fatal("failed to initialize API server", zap.Error(err))
	}
	server.shutdownTracing = shutdownTracing
	return server
}

// New builds a server around an open database handle. The request_history
// table is created when missing.
func New(cfg config.App, logger logging.Logger, db *sql.DB) (*Server, error) {
	store := storage.NewSQLClient(db, cfg.DBDriver)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Initialize(initCtx); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	geocoder := geocoding.NewNominatimResolver(cfg.GeocoderBaseURL, upstream.New(upstream.Config{
		Name:             "nominatim",
		UserAgent:        cfg.GeocoderUserAgent,
		Accept:           "application/json",
		FailureThreshold: cfg.BreakerFailureThreshold,
		OpenTimeout:      cfg.BreakerOpenTimeout,
	}, httpClient), logger.Zap())

	forecaster, err := forecast.NewNWSResolver(cfg.NWSBaseURL, upstream.New(upstream.Config{
		Name:             "nws",
		UserAgent:        cfg.NWSUserAgent,
		Accept:           "application/geo+json",
		FailureThreshold: cfg.BreakerFailureThreshold,
		OpenTimeout:      cfg.BreakerOpenTimeout,
	}, httpClient), logger.Zap())
	if err != nil {
		return nil, err
	}

	server := &Server{
		config:          cfg,
		logger:          logger,
		db:              db,
		store:           store,
		shutdownTracing: func(context.Context) error { return nil },
	}

	// A nil *Publisher must not end up inside the interface.
	var publisher lookup.EventPublisher
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		server.publisher = events.NewPublisher(brokers, cfg.KafkaTopic, logger.Zap())
		publisher = server.publisher
	}

	server.lookupService = lookup.NewService(store, geocoder, forecaster, publisher, logger.Zap()).
		FailOnForecastError(cfg.ForecastErrorsFailRequest)

	if cfg.ReaperSchedule != "" {
		server.reaper, err = scheduler.NewEngine(cfg.ReaperSchedule, cfg.ReaperStaleAfter, store, logger.Zap())
		if err != nil {
			return nil, err
		}
	}

	server.setupRouter()
	return server, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with middleware and routes.
func (s *Server) setupRouter() {
	router := gin.New()
	zapLogger := s.logger.Zap()

	// Global middleware (order matters!)
	// 1. Recovery - must be first to catch panics from other middleware
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))

	// 2. Request ID - inject unique ID for tracing
	router.Use(middleware.RequestID())

	// 3. Tracing - server span per request
	router.Use(middleware.Tracing(serviceName))

	// 4. Logging - log all requests with structured fields
	router.Use(ginzap.GinzapWithConfig(zapLogger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zap.Field {
			return []zap.Field{zap.String("request_id", c.GetString(middleware.RequestIDKey))}
		},
	}))

	// 5. CORS - handle cross-origin requests
	router.Use(cors.New(cors.Config{
		AllowOrigins:  s.config.CORSOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "traceparent"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})

	// System endpoints
	router.GET("/health", handlers.NewHealthHandler(s.logger, s.store, Version).Health)
	router.GET("/metrics", handlers.NewMetricsHandler(s.logger, s.store).Metrics)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/requests", handlers.NewRequestsHandler(s.logger, s.lookupService).ListRecentRequests)
	router.GET("/:zip_code", handlers.NewWeatherHandler(s.logger, s.lookupService).GetWeather)

	s.router = router
}

// Serve starts the HTTP server and the stale request reaper with graceful
// shutdown support.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3*s.config.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	reaperDone := make(chan struct{})
	go func() {
		defer close(reaperDone)
		if s.reaper != nil {
			_ = s.reaper.Run(reaperCtx)
		}
	}()

	// Start server in goroutine
	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("log_level", s.config.LogLevel),
			zap.String("db_driver", s.config.DBDriver),
			zap.Bool("events_enabled", s.publisher != nil),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-quit
	s.logger.Info("shutting down server gracefully...")

	// Graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopReaper()
	<-reaperDone

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	s.closeResources(ctx)

	// Flush logger before exit
	if err := s.logger.Sync(); err != nil {
		// Ignore sync errors on stdout/stderr
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: invalid argument" {
			return err
		}
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) closeResources(ctx context.Context) {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("failed to close event publisher", zap.Error(err))
		}
	}

	if err := s.shutdownTracing(ctx); err != nil {
		s.logger.Error("failed to flush traces", zap.Error(err))
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("failed to close database connection", zap.Error(err))
		}
	}
}

func connectDatabase(cfg config.App, logger logging.Logger) *sql.DB {
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := storage.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database",
			zap.String("driver", cfg.DBDriver),
			zap.Error(err))
	}

	return db
}
