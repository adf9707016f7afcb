// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nutriscan-ai/supplement-platform/internal/config"
	"github.com/nutriscan-ai/supplement-platform/internal/handler"
	"github.com/nutriscan-ai/supplement-platform/internal/llm"
	"github.com/nutriscan-ai/supplement-platform/internal/middleware"
	"github.com/nutriscan-ai/supplement-platform/internal/view"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
	"github.com/nutriscan-ai/supplement-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "supplement-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Initialize the AI boundary client. The preferred provider is used
	// when its key is present; otherwise fall back to whichever is
	// configured. A missing key is not fatal at startup.
	boundary, err := newBoundaryClient(cfg)
	if err != nil {
		log.Error("failed to create boundary client", zap.Error(err))
		os.Exit(1)
	}
	log.Info("boundary client ready", zap.String("provider", boundary.Name()))

	// Per-client app state, created on first request
	registry := view.NewRegistry(boundary, cfg.BoundaryTimeout, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(boundary)
	viewHandler := handler.NewViewHandler(registry, log)
	captureHandler := handler.NewCaptureHandler(registry, log)
	searchHandler := handler.NewSearchHandler(registry, log)
	chatHandler := handler.NewChatHandler(registry, log)
	contentHandler := handler.NewContentHandler(registry)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ClientKey)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Client-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Navigation and screen state
		r.Get("/state", viewHandler.State)
		r.Post("/navigate", viewHandler.Navigate)
		r.Post("/result/dismiss", viewHandler.DismissResult)
		r.Post("/signout", viewHandler.SignOut)

		// Scanner
		r.Route("/capture", func(r chi.Router) {
			r.Post("/start", captureHandler.Start)
			r.Get("/device", captureHandler.Device)
			r.Post("/device", captureHandler.ReportDevice)
			r.Post("/frame", captureHandler.Frame)
			r.Post("/retry", captureHandler.Retry)
			r.Post("/close", captureHandler.Close)
			r.Get("/state", captureHandler.State)
		})

		// Search
		r.Post("/search", searchHandler.Search)
		r.Get("/search/state", searchHandler.State)

		// Consultant
		r.Post("/chat", chatHandler.Send)
		r.Get("/chat/turns", chatHandler.Turns)
		r.Post("/chat/reset", chatHandler.Reset)

		// Profile and settings
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", viewHandler.Profile)
			r.Post("/edit", viewHandler.BeginEdit)
			r.Put("/draft", viewHandler.UpdateDraft)
			r.Post("/save", viewHandler.SaveProfile)
			r.Post("/cancel", viewHandler.CancelEdit)
		})
		r.Get("/settings", viewHandler.Settings)
		r.Post("/settings/toggle", viewHandler.ToggleSetting)

		// Static content and demo history
		r.Get("/content/{page}", contentHandler.Page)
		r.Get("/history", contentHandler.History)
		r.Post("/history/load", contentHandler.LoadHistory)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func newBoundaryClient(cfg *config.Config) (llm.Client, error) {
	provider := llm.Provider(cfg.DefaultProvider)
	apiKey := cfg.OpenAIAPIKey
	switch {
	case provider == llm.ProviderAnthropic && cfg.AnthropicAPIKey != "":
		apiKey = cfg.AnthropicAPIKey
	case provider == llm.ProviderOpenAI && cfg.OpenAIAPIKey != "":
		// Keep the configured preference.
	case cfg.AnthropicAPIKey != "":
		provider = llm.ProviderAnthropic
		apiKey = cfg.AnthropicAPIKey
	case cfg.OpenAIAPIKey != "":
		provider = llm.ProviderOpenAI
	}

	client, err := llm.NewClient(provider, apiKey, cfg.BoundaryModel)
	if err != nil {
		return nil, err
	}
	return llm.Instrument(client), nil
}
