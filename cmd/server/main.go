package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spacesedan/sentilens/config"
	"github.com/spacesedan/sentilens/internal/analysis"
	"github.com/spacesedan/sentilens/internal/chart"
	"github.com/spacesedan/sentilens/internal/clients"
	"github.com/spacesedan/sentilens/internal/logging"
	"github.com/spacesedan/sentilens/internal/monitoring"
	"github.com/spacesedan/sentilens/internal/sentiment"
	"github.com/spacesedan/sentilens/internal/server"
	"github.com/spacesedan/sentilens/internal/translation"
)

type translatorBackend interface {
	translation.Backend
	monitoring.HealthChecker
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := server.NewMetrics()
	opts := []analysis.Option{
		analysis.WithWorkers(cfg.ScoringWorkers),
		analysis.WithMaxFileBytes(cfg.MaxUploadBytes),
	}

	var healthy *atomic.Bool
	backend, err := newTranslatorBackend(cfg.Translator)
	if err != nil {
		slog.Error("[Main] Failed to create translator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if backend != nil {
		healthy = &atomic.Bool{}
		healthy.Store(true)
		go monitoring.MonitorTranslatorHealth(ctx, backend, healthy, cfg.Translator.HealthCheckInterval)

		svcOpts := []translation.Option{
			translation.WithHealthFlag(healthy),
			translation.WithFallbackHook(metrics.TranslationFallback),
			translation.WithConcurrency(cfg.ScoringWorkers),
		}
		if cfg.Valkey.Enabled() {
			cache, err := clients.NewValkeyClient(cfg.Valkey)
			if err != nil {
				slog.Warn("[Main] Translation cache unavailable, continuing without it",
					slog.String("error", err.Error()))
			} else {
				defer cache.Close()
				svcOpts = append(svcOpts, translation.WithCache(cache, cfg.Translator.CacheTTL))
			}
		}

		svc := translation.NewService(backend, cfg.Translator.Timeout, svcOpts...)
		opts = append(opts, analysis.WithTranslator(svc))
	}

	analyzer := analysis.NewAnalyzer(
		sentiment.NewVADER(cfg.StripMarkdown),
		chart.NewPieRenderer(),
		opts...,
	)

	slog.Info("[Main] Starting sentilens",
		slog.String("env", cfg.Env),
		slog.String("translator", analyzer.TranslatorName()),
		slog.Int("workers", cfg.ScoringWorkers))

	if err := server.NewServer(cfg, analyzer, metrics, healthy).Run(ctx); err != nil {
		slog.Error("[Main] Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Shutdown complete")
}

func newTranslatorBackend(cfg config.TranslatorConfig) (translatorBackend, error) {
	switch cfg.Backend {
	case config.TRANSLATOR_NONE:
		return nil, nil
	case config.TRANSLATOR_GOOGLE:
		if cfg.GoogleAPIKey == "" {
			return nil, errors.New("GOOGLE_TRANSLATE_API_KEY is required for the google translator")
		}
		return clients.NewGoogleTranslateClient(cfg.GoogleAPIKey, cfg.GoogleEndpoint), nil
	case config.TRANSLATOR_OPENAI:
		return clients.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown translator backend %q", cfg.Backend)
	}
}
