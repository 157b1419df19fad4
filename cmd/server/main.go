package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/kalkyl/internal"
	"github.com/DukeRupert/kalkyl/internal/handler"
	"github.com/DukeRupert/kalkyl/internal/metrics"
	"github.com/DukeRupert/kalkyl/internal/middleware"
	"github.com/DukeRupert/kalkyl/internal/pricing"
	"github.com/DukeRupert/kalkyl/internal/repository"
	"github.com/DukeRupert/kalkyl/internal/service"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize store and estimator
	store := repository.NewStore(db)
	estimator := pricing.NewEstimator(pricing.DefaultComplexityTable())

	// Initialize services
	userService := service.NewUserService(store, logger)
	rateService := service.NewRateService(store, logger)
	subscriptionService := service.NewSubscriptionService(store, logger)
	estimateService := service.NewEstimateService(store, estimator, logger)
	reportService := service.NewReportService(store, logger)

	// Initialize middleware
	isSecure := cfg.IsProduction()
	authMw := middleware.NewAuthMiddleware(userService, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	authLimiter := middleware.NewAuthRateLimiter(logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, logger, isSecure)
	settingsHandler := handler.NewSettingsHandler(userService, logger)
	ratesHandler := handler.NewRatesHandler(rateService, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, logger)
	estimateHandler := handler.NewEstimateHandler(estimateService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	catalogHandler := handler.NewCatalogHandler()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics (basic auth)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Public routes
	mux.Handle("POST /api/auth/register", authLimiter.LimitRegister(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", authLimiter.LimitLogin(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/catalog", catalogHandler.Get)

	// Authenticated routes
	requireUser := middleware.Stack(authMw.WithUser, authMw.RequireUser)

	mux.Handle("GET /api/me", requireUser(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/profile", requireUser(http.HandlerFunc(settingsHandler.UpdateProfile)))
	mux.Handle("PUT /api/password", requireUser(http.HandlerFunc(settingsHandler.ChangePassword)))
	mux.Handle("GET /api/cost-configuration", requireUser(http.HandlerFunc(ratesHandler.GetRates)))
	mux.Handle("PUT /api/cost-configuration", requireUser(http.HandlerFunc(ratesHandler.UpdateRates)))
	mux.Handle("GET /api/subscription", requireUser(http.HandlerFunc(subscriptionHandler.Get)))
	mux.Handle("POST /api/subscription", requireUser(http.HandlerFunc(subscriptionHandler.Subscribe)))
	mux.Handle("POST /api/estimates/validate", requireUser(http.HandlerFunc(estimateHandler.Validate)))
	mux.Handle("POST /api/estimates/preview", requireUser(http.HandlerFunc(estimateHandler.Preview)))
	mux.Handle("POST /api/estimates", requireUser(http.HandlerFunc(estimateHandler.Submit)))
	mux.Handle("GET /api/reports", requireUser(http.HandlerFunc(reportHandler.List)))
	mux.Handle("GET /api/reports/{id}", requireUser(http.HandlerFunc(reportHandler.Get)))

	// Outer middleware: security headers, request logging, metrics
	root := middleware.Stack(
		securityMw.Handler,
		loggingMw.Handler,
		metrics.Middleware,
	)(mux)

	// ==========================================================================
	// Background session cleanup
	// ==========================================================================

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()

	if cfg.SessionCleanupMinutes > 0 {
		interval := time.Duration(cfg.SessionCleanupMinutes) * time.Minute
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-cleanupCtx.Done():
					return
				case <-ticker.C:
					if err := userService.DeleteExpiredSessions(cleanupCtx); err != nil {
						logger.Warn("session cleanup failed", "error", err)
					}
				}
			}
		}()
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
