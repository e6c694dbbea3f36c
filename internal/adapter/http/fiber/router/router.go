package router

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/voice-relay/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voice-relay/internal/ports"
	"github.com/seu-repo/voice-relay/internal/service/health"
	"github.com/seu-repo/voice-relay/pkg/config"
)

// Dependencies are the relays and settings the HTTP surface is built from.
type Dependencies struct {
	Config        *config.Config
	Transcription ports.TranscriptionRelay
	Webhook       ports.WebhookRelay
	Speech        ports.SpeechRelay
	Health        *health.Service
	Logger        *zap.Logger
	AccessLog     bool
}

// New builds the Fiber application with every route registered.
func New(d Dependencies) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             cfg.Limits.BodyLimit(),
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(d.Logger),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}

	if d.Health != nil {
		health.NewFiberHandler(d.Health).RegisterRoutes(app)
	}

	if cfg.Prometheus.Enabled {
		metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			// Adapt net/http handler to fasthttp for Fiber
			metrics(c.Context())
			return nil
		})
	}

	api := app.Group("/api", middleware.SharedSecret(cfg.Security.SharedSecret))

	transcriptionHandler := handlers.NewTranscriptionHandler(d.Transcription, d.Logger)
	api.Post("/transcribe", transcriptionHandler.Transcribe)

	webhookHandler := handlers.NewWebhookHandler(d.Webhook, d.Logger)
	api.Post("/webhook", webhookHandler.Forward)

	speechHandler := handlers.NewSpeechHandler(d.Speech, d.Logger)
	api.Post("/speak", speechHandler.Speak)

	if cfg.HTTP.StaticDir != "" {
		app.Static("/", cfg.HTTP.StaticDir)
	}

	return app
}
