package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/pkg/config"
)

// Keys read from the KV v2 secret at the configured path.
const (
	KeyOpenAIAPIKey  = "openai_api_key"
	KeyWebhookURL    = "webhook_url"
	KeyWebhookSecret = "webhook_secret"
)

type SecretManager struct {
	client *api.Client
	path   string
	log    *zap.Logger
}

func NewSecretManager(address, token, path string, log *zap.Logger) (*SecretManager, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client, path: path, log: log}, nil
}

// Read returns the string values stored in the secret.
func (sm *SecretManager) Read(ctx context.Context) (map[string]string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, sm.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault secret %s: %w", sm.path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault secret %s not found", sm.path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("vault secret %s is not a kv v2 secret", sm.path)
	}

	values := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return values, nil
}

// Resolve fills upstream settings that are still empty in cfg. Values already
// set through the environment or config file win.
func (sm *SecretManager) Resolve(ctx context.Context, cfg *config.Config) error {
	values, err := sm.Read(ctx)
	if err != nil {
		return err
	}

	fill := func(dst *string, key string) {
		if *dst == "" && values[key] != "" {
			*dst = values[key]
			sm.log.Info("Resolved setting from vault", zap.String("key", key))
		}
	}
	fill(&cfg.OpenAI.APIKey, KeyOpenAIAPIKey)
	fill(&cfg.Webhook.URL, KeyWebhookURL)
	fill(&cfg.Webhook.Secret, KeyWebhookSecret)

	return nil
}
