package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/voice-relay/internal/adapter/http/fiber/router"
	"github.com/seu-repo/voice-relay/internal/adapter/upstream"
	"github.com/seu-repo/voice-relay/internal/adapter/vault"
	"github.com/seu-repo/voice-relay/internal/observability/telemetry"
	"github.com/seu-repo/voice-relay/internal/service/health"
	"github.com/seu-repo/voice-relay/internal/service/speech"
	"github.com/seu-repo/voice-relay/internal/service/transcription"
	"github.com/seu-repo/voice-relay/internal/service/webhook"
	"github.com/seu-repo/voice-relay/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting voice relay",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Resolve secrets from Vault when enabled
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, cfg.Vault.Path, logger)
		if err != nil {
			logger.Fatal("Failed to create vault client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := sm.Resolve(ctx, cfg); err != nil {
			// Missing upstream settings are reported per request, not at startup.
			logger.Warn("Failed to resolve secrets from vault", zap.Error(err))
		}
		cancel()
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry.ServiceName, cfg.App.Version, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; /api/transcribe and /api/speak will answer 500")
	}
	if cfg.Webhook.URL == "" {
		logger.Warn("WEBHOOK_URL is not set; /api/webhook will answer 500")
	}

	// 5. Initialize upstream client and relays
	client := upstream.NewClient(nil, cfg.Upstream.Timeout, logger.Named("upstream"))

	transcriptionService := transcription.NewService(transcription.Config{
		APIKey:   cfg.OpenAI.APIKey,
		BaseURL:  cfg.OpenAI.BaseURL,
		Model:    cfg.OpenAI.TranscriptionModel,
		MaxBytes: cfg.Limits.MaxAudioBytes,
	}, client, logger.Named("transcription"))

	webhookService := webhook.NewService(webhook.Config{
		URL:          cfg.Webhook.URL,
		Secret:       cfg.Webhook.Secret,
		SecretHeader: cfg.Webhook.SecretHeader,
	}, client, logger.Named("webhook"))

	speechService := speech.NewService(speech.Config{
		APIKey:       cfg.OpenAI.APIKey,
		BaseURL:      cfg.OpenAI.BaseURL,
		Model:        cfg.OpenAI.SpeechModel,
		DefaultVoice: cfg.OpenAI.DefaultVoice,
	}, client, logger.Named("speech"))

	healthService := health.NewService(&health.Config{
		Version:           cfg.App.Version,
		OpenAIConfigured:  cfg.OpenAI.APIKey != "",
		WebhookConfigured: cfg.Webhook.URL != "",
	}, logger)

	// 6. Initialize Fiber HTTP Server
	app := router.New(router.Dependencies{
		Config:        cfg,
		Transcription: transcriptionService,
		Webhook:       webhookService,
		Speech:        speechService,
		Health:        healthService,
		Logger:        logger,
		AccessLog:     true,
	})

	// 7. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 8. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.App.Environment == "development" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Logging.Format == "console" {
		zcfg.Encoding = "console"
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
