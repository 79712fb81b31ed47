package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockview/blockview/internal/api"
	"github.com/blockview/blockview/internal/cache"
	"github.com/blockview/blockview/internal/chat"
	"github.com/blockview/blockview/internal/config"
	"github.com/blockview/blockview/internal/marker"
	"github.com/blockview/blockview/internal/metrics"
	"github.com/blockview/blockview/internal/pipeline"
	"github.com/blockview/blockview/internal/session"
	"github.com/blockview/blockview/internal/speech"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients and stores.
	mc := marker.NewClient(cfg.MarkerURL, cfg.DatalabAPIKey, cfg.MarkerPollInterval, cfg.MarkerMaxPolls)
	chatClient := chat.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	var speechClient *speech.Client
	if cfg.OpenAIAPIKey != "" {
		speechClient = speech.NewClient(cfg.OpenAIAPIKey, cfg.TTSModel, cfg.TTSVoice)
	} else {
		log.Warn("OPENAI_API_KEY not set, speech synthesis disabled")
	}

	cacheStore, err := cache.NewStore(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		log.Error("cache init failed", "error", err)
		os.Exit(1)
	}
	sessions := session.NewStore(cfg.SessionTTL)
	m := metrics.New()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, mc, cacheStore, sessions, m, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, chatClient, speechClient, m, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		chatClient.Close()
		mc.Close()
		if speechClient != nil {
			speechClient.Close()
		}
	}()

	log.Info("starting blockview", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
