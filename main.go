package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mortgage-advisor/config"
	httpLayer "mortgage-advisor/http"
	"mortgage-advisor/logger"
	"mortgage-advisor/repository"
	"mortgage-advisor/schema"
	"mortgage-advisor/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	validator, err := schema.NewValidator()
	if err != nil {
		log.Error("failed to compile schemas", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	var modelClient service.ModelClient
	if cfg.OpenAI.APIKey != "" {
		modelClient = service.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.URL, cfg.OpenAI.Model, cfg.OpenAI.Timeout)
	} else {
		log.Warn("no OpenAI API key configured, narratives fall back to deterministic text", nil)
	}
	aiService := service.NewAIService(modelClient, validator, log)

	valuationService := service.NewValuationService(aiService, log)
	liabilityService := service.NewLiabilityService(aiService, log)
	callPrepService := service.NewCallPrepService(aiService, log)

	var cache repository.CacheRepository
	if cfg.Redis.Enabled {
		cache = repository.NewRedisCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		log.Info("using redis cache", map[string]interface{}{"address": cfg.Redis.Address})
	} else {
		cache = repository.NewMockCache()
	}

	avmHandler := httpLayer.NewAVMHandler(valuationService, validator, cache, log)
	liabilityHandler := httpLayer.NewLiabilityHandler(liabilityService, validator, log)
	callPrepHandler := httpLayer.NewCallPrepHandler(callPrepService, validator, log)
	healthHandler := httpLayer.NewHealthHandler()

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	route := func(endpoint string, handler http.HandlerFunc) http.Handler {
		return httpLayer.RequestLogMiddleware(
			log,
			endpoint,
			httpLayer.RateLimitMiddleware(rateLimiter, handler),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/ai/avm", route("/api/ai/avm", avmHandler.EvaluateProperty))
	mux.Handle("/api/ai/liability", route("/api/ai/liability", liabilityHandler.AssessLiabilities))
	mux.Handle("/api/ai/call-prep", route("/api/ai/call-prep", callPrepHandler.PrepareCall))
	mux.Handle("/api/health", http.HandlerFunc(healthHandler.Check))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("server failed to start", map[string]interface{}{"error": err.Error()})
		return
	case <-quit:
		log.Info("shutting down server", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("error during server shutdown", map[string]interface{}{"error": err.Error()})
	}

	log.Info("server exited", nil)
}
