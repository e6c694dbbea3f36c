package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultAPIBaseURL = "https://api.openai.com/v1"

func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT", "PORT")
	v.BindEnv("http.static_dir", "STATIC_DIR", "APP_HTTP_STATIC_DIR")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY", "APP_OPENAI_API_KEY")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL", "APP_OPENAI_BASE_URL")
	v.BindEnv("webhook.url", "WEBHOOK_URL", "N8N_WEBHOOK_URL", "APP_WEBHOOK_URL")
	v.BindEnv("webhook.secret", "WEBHOOK_SECRET", "APP_WEBHOOK_SECRET")
	v.BindEnv("security.shared_secret", "RELAY_SHARED_SECRET", "APP_SECURITY_SHARED_SECRET")
	v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.OpenAI.BaseURL = strings.TrimRight(cfg.OpenAI.BaseURL, "/")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "voice-relay")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "production")

	v.SetDefault("http.port", 3000)
	v.SetDefault("http.static_dir", "")
	v.SetDefault("http.read_timeout", 30*time.Second)
	v.SetDefault("http.write_timeout", 120*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", DefaultAPIBaseURL)
	v.SetDefault("openai.transcription_model", "whisper-1")
	v.SetDefault("openai.speech_model", "tts-1")
	v.SetDefault("openai.default_voice", "alloy")

	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.secret_header", "X-Webhook-Secret")

	v.SetDefault("upstream.timeout", 60*time.Second)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.path", "secret/data/voice-relay")

	v.SetDefault("opentelemetry.enabled", false)
	v.SetDefault("opentelemetry.service_name", "voice-relay")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://jaeger:14268/api/traces")

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "X-Client-Id", "X-Relay-Secret", "X-Request-ID"})
	v.SetDefault("cors.expose_headers", []string{"Content-Length", "Content-Disposition", "X-Request-ID"})
	v.SetDefault("cors.max_age", 86400)
	v.SetDefault("cors.credentials", false)

	v.SetDefault("security.shared_secret", "")

	v.SetDefault("limits.max_audio_bytes", 25<<20)
	v.SetDefault("limits.max_json_bytes", 1<<20)
}
