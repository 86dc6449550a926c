package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripweaver/internal/agents"
	"tripweaver/internal/config"
	"tripweaver/internal/handlers"
	"tripweaver/internal/pkg/logger"
	"tripweaver/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		JSONFormat: true,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  50,
		MaxBackups: 3,
	})

	llm, err := services.NewLLMService(cfg.LLM, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize LLM service")
		os.Exit(1)
	}

	places, err := services.NewPlacesService(cfg.Places, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize places service")
		os.Exit(1)
	}

	store, err := services.NewTripStore(cfg.RedisURL, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize trip store")
		os.Exit(1)
	}
	defer store.Close()

	pipeline := services.NewPipelineService(
		agents.NewIntakeAgent(llm, log),
		agents.NewResearcherAgent(llm, places, log),
		agents.NewTasteAgent(llm, log),
		agents.NewPlannerAgent(llm, log),
		agents.NewSummaryAgent(llm, log),
		services.NewResearchCache(cfg.Cache),
		log,
	)

	conversation := services.NewConversationService(store, log)
	refiner := agents.NewRefinerAgent(llm, log)

	handler := handlers.New(conversation, pipeline, refiner, store, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Router(),
	}

	go func() {
		log.Info("Server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server stopped unexpectedly")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
