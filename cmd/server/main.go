package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/api"
	"github.com/medguide-assistant-server/internal/config"
	"github.com/medguide-assistant-server/internal/domain"
	"github.com/medguide-assistant-server/internal/service"
	"github.com/medguide-assistant-server/internal/session"
	"github.com/medguide-assistant-server/pkg/external"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(&cfg.Logging)

	logger.WithField("demo_mode", cfg.Assistant.DemoMode).Info("Starting guideline assistant server")

	server := api.NewServer(buildDependencies(configManager, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// buildDependencies wires the API server. Demo mode selects the canned
// clients; otherwise live clients are built from the configuration,
// with session-scoped API keys overriding the configured ones per call.
func buildDependencies(configManager domain.ConfigManager, logger *logrus.Logger) api.Dependencies {
	cfg := configManager.GetConfig()

	deps := api.Dependencies{
		Config:     configManager,
		Logger:     logger,
		Sessions:   session.NewManager(logger),
		Normalizer: service.NewNormalizerService(logger),
		Extractor:  service.NewExtractorService(logger),
		Records: external.NewRecordClient(external.RecordConfig{
			BaseURL:   cfg.Record.BaseURL,
			PatientID: cfg.Record.PatientID,
			Timeout:   cfg.Record.Timeout,
		}, logger),
	}

	if cfg.Assistant.DemoMode {
		canned := external.NewCannedClient()
		searcher := external.NewCannedSearcher()
		deps.QuerierFor = func(string) domain.GuidelineQuerier { return canned }
		deps.WriterFor = func(string) domain.NoteWriter { return canned }
		deps.SearcherFor = func(string) domain.WebSearcher { return searcher }
		return deps
	}

	messages := external.NewMessagesClient(external.MessagesConfig{
		BaseURL:     cfg.Provider.BaseURL,
		APIKey:      cfg.Provider.APIKey,
		Model:       cfg.Provider.Model,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
		Timeout:     cfg.Provider.Timeout,
		RateLimit:   cfg.Provider.RateLimit,
	})
	search := external.NewSearchClient(external.SearchConfig{
		BaseURL:    cfg.Search.BaseURL,
		APIKey:     cfg.Search.APIKey,
		MaxResults: cfg.Search.MaxResults,
		Timeout:    cfg.Search.Timeout,
		RateLimit:  cfg.Search.RateLimit,
	})

	deps.QuerierFor = func(apiKey string) domain.GuidelineQuerier { return messages.WithAPIKey(apiKey) }
	deps.WriterFor = func(apiKey string) domain.NoteWriter { return messages.WithAPIKey(apiKey) }
	deps.SearcherFor = func(apiKey string) domain.WebSearcher { return search.WithAPIKey(apiKey) }

	return deps
}
