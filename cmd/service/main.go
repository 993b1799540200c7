package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/relam-bot/Useless-Project-2.0/internal/config"
	"github.com/relam-bot/Useless-Project-2.0/internal/excuse"
	"github.com/relam-bot/Useless-Project-2.0/internal/geoip"
	httphandler "github.com/relam-bot/Useless-Project-2.0/internal/http"
	"github.com/relam-bot/Useless-Project-2.0/internal/lifecycle"
	"github.com/relam-bot/Useless-Project-2.0/internal/news"
	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/service"
	"github.com/relam-bot/Useless-Project-2.0/internal/transit"
	"github.com/relam-bot/Useless-Project-2.0/internal/weather"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	resolver, err := geoip.NewIPAPIClient(cfg.GeoAPIURL, cfg.LocalIPSubstitute, cfg.GeoAPITimeout, cfg.GeoRatePerMinute)
	if err != nil {
		logger.Fatal("geolocation client", zap.Error(err))
	}

	weatherClient, err := weather.NewWeatherAPIClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}

	newsClient, err := news.NewNewsAPIClient(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.NewsCountry, cfg.NewsPageSize, cfg.NewsAPITimeout)
	if err != nil {
		logger.Fatal("news client", zap.Error(err))
	}

	var generator excuse.Generator
	switch cfg.GeneratorProvider {
	case config.ProviderOpenAI:
		generator, err = excuse.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.GeneratorModel, cfg.GeneratorTimeout)
	default:
		generator, err = excuse.NewGeminiClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeneratorModel, cfg.GeneratorTimeout)
	}
	if err != nil {
		logger.Fatal("generator client", zap.Error(err))
	}
	logger.Info("generator selected",
		zap.String("provider", cfg.GeneratorProvider),
		zap.String("model", cfg.GeneratorModel))

	transitProvider := transit.NewStubProvider(logger)

	excuseService := service.NewExcuseService(
		resolver,
		weatherClient,
		newsClient,
		transitProvider,
		generator,
		cfg.TimeLocation,
		cfg.LocalIPSubstitute,
	)

	healthConfig := &httphandler.HealthConfig{
		DegradedWindow:   cfg.DegradedWindow,
		DegradedErrorPct: cfg.DegradedErrorPct,
	}
	handler := httphandler.NewHandler(excuseService, healthConfig, logger, cfg.RoleMaxLength)

	router := mux.NewRouter()
	router.Use(httphandler.CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	excuseRouter := router.PathPrefix("/generateExcuse").Subrouter()
	excuseRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	excuseRouter.HandleFunc("", handler.GenerateExcuse).Methods("POST", "OPTIONS")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.ServerPort),
			zap.String("timezone", cfg.Timezone))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
