package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/gcp"
	"github.com/yungbote/aet-studio-backend/internal/platform/gemini"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
	"github.com/yungbote/aet-studio-backend/internal/platform/openai"
	"github.com/yungbote/aet-studio-backend/internal/platform/redisx"
)

type Clients struct {
	AI     ai.Provider
	Bucket gcp.BucketService
	Redis  *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	provider, err := wireAIProvider(ctx, log, cfg.AI)
	if err != nil {
		return Clients{}, err
	}

	bucket, err := resolveBucketService(log, cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	var rdb *goredis.Client
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb, err = redisx.NewClient(ctx, log, redisx.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
	}

	return Clients{AI: provider, Bucket: bucket, Redis: rdb}, nil
}

// wireAIProvider builds the configured provider. A missing key is not an error: the
// provider is wired as unconfigured and generation answers 503.
func wireAIProvider(ctx context.Context, log *logger.Logger, cfg AIConfig) (ai.Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			log.Warn("OPENAI_API_KEY not set; AI generation unavailable")
			return ai.UnconfiguredProvider("OPENAI_API_KEY not set"), nil
		}
		client, err := openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			ImageModel: cfg.OpenAIImageModel,
			Timeout:    max(cfg.TextTimeout, cfg.ImageTimeout),
			MaxRetries: 2,
		})
		if err != nil {
			return ai.Provider{}, fmt.Errorf("init openai client: %w", err)
		}
		return ai.Provider{Name: ProviderOpenAI, Text: client, Image: client}, nil
	case ProviderGemini, "":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			log.Warn("GEMINI_API_KEY not set; AI generation unavailable")
			return ai.UnconfiguredProvider("GEMINI_API_KEY not set"), nil
		}
		client, err := gemini.NewClient(ctx, log, gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			TextModel:  cfg.GeminiTextModel,
			ImageModel: cfg.GeminiImageModel,
		})
		if err != nil {
			return ai.Provider{}, fmt.Errorf("init gemini client: %w", err)
		}
		return ai.Provider{Name: ProviderGemini, Text: client, Image: client}, nil
	default:
		return ai.Provider{}, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.Provider)
	}
}
