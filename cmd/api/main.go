package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/xelth-com/zapstock/internal/app"
	"github.com/xelth-com/zapstock/internal/buildinfo"
	"github.com/xelth-com/zapstock/internal/config"
	"github.com/xelth-com/zapstock/internal/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("zapstock", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Logging
	logger.Init("zapstock", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	logger.Logger.Info().
		Str("version", buildinfo.Version).
		Str("env", cfg.Env).
		Str("store", cfg.Store.Backend).
		Msg("Starting ZapStock")

	if !cfg.AuthEnabled() {
		logger.Logger.Warn().Msg("JWT_SECRET not set, API is open to anyone who can reach it")
	}

	// 3. Storage and services
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start application")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go a.Hub.Run(hubCtx)

	// 4. HTTP server
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
	}).Handler(a.Router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	sig := <-shutdown
	logger.Logger.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	stopHub()

	// Close storage (this also stops embedded PostgreSQL)
	if err := a.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("Storage close error")
	}

	logger.Logger.Info().Msg("Shutdown complete")
}
