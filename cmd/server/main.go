package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/meal-service/internal/app"
	"github.com/Lixing-Zhang/meal-service/internal/config"
	"github.com/Lixing-Zhang/meal-service/internal/handlers"
	"github.com/Lixing-Zhang/meal-service/internal/metrics"
	"github.com/Lixing-Zhang/meal-service/internal/middleware"
	"github.com/Lixing-Zhang/meal-service/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting meal api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"translator", cfg.Translator.Provider,
		"target_language", cfg.Translator.TargetLanguage,
	)

	mealService, err := app.BuildMealService(cfg, log)
	if err != nil {
		log.Error("failed to build meal service", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(app.ServiceName, log)
	mealHandler := handlers.NewMealHandler(mealService, log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORS.AllowedOrigin},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID", "api_key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// API routes
	r.Route("/api/meals", func(r chi.Router) {
		if cfg.RateLimit.Enabled() {
			limiter := middleware.NewRateLimiter(cfg.RateLimit)
			go limiter.RunCleanup(ctx, time.Minute)
			r.Use(limiter.Handler)
			log.Info("rate limiting enabled", "rps", cfg.RateLimit.RequestsPerSecond, "burst", cfg.RateLimit.Burst)
		}
		r.Use(middleware.APIKeyAuth(cfg.Auth))

		r.Get("/random", mealHandler.Random)
		r.Get("/search", mealHandler.Search)
		r.Get("/detail/{id}", mealHandler.Detail)
		r.Get("/detail", mealHandler.Detail)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
