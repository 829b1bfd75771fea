package app

import (
	"os"
	"strings"
	"time"

	"github.com/yungbote/aet-studio-backend/internal/data/db"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/envutil"
	"github.com/yungbote/aet-studio-backend/internal/platform/gcp"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultJWTSecret = "defaultsecret"
)

type AIConfig struct {
	Provider string

	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	OpenAIImageModel string

	TextTimeout  time.Duration
	ImageTimeout time.Duration
}

type Config struct {
	Port    string
	LogMode string

	Database db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	AI                 AIConfig
	ImageBatchSize     int
	ImageRatePerMinute int

	ObjectStorageMode         string
	StorageEmulatorHost       string
	StorageModeCompatFallback bool
	Bucket                    gcp.BucketConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MetricsEnabled bool
	Otel           observability.OtelConfig
	CORSOrigins    []string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),

		Database: db.Config{
			DatabaseURL: envutil.String("DATABASE_URL", ""),
			Host:        envutil.String("POSTGRES_HOST", ""),
			Port:        envutil.String("POSTGRES_PORT", "5432"),
			User:        envutil.String("POSTGRES_USER", ""),
			Password:    envutil.String("POSTGRES_PASSWORD", ""),
			Name:        envutil.String("POSTGRES_NAME", ""),
			SSLMode:     envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:  envutil.String("SQLITE_PATH", db.DefaultSQLitePath),
		},

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),

		AI: AIConfig{
			Provider:         strings.ToLower(envutil.String("AI_PROVIDER", ProviderGemini)),
			GeminiAPIKey:     envutil.String("GEMINI_API_KEY", envutil.String("API_KEY", "")),
			GeminiTextModel:  envutil.String("GEMINI_TEXT_MODEL", ""),
			GeminiImageModel: envutil.String("GEMINI_IMAGE_MODEL", ""),
			OpenAIAPIKey:     envutil.String("OPENAI_API_KEY", ""),
			OpenAIBaseURL:    envutil.String("OPENAI_BASE_URL", ""),
			OpenAIModel:      envutil.String("OPENAI_MODEL", ""),
			OpenAIImageModel: envutil.String("OPENAI_IMAGE_MODEL", ""),
			TextTimeout:      envutil.Seconds("AI_TEXT_TIMEOUT_SECONDS", 90*time.Second),
			ImageTimeout:     envutil.Seconds("AI_IMAGE_TIMEOUT_SECONDS", 60*time.Second),
		},
		ImageBatchSize:     envutil.Int("IMAGE_BATCH_SIZE", 5),
		ImageRatePerMinute: envutil.Int("IMAGE_RATE_PER_MINUTE", 0),

		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
		Bucket: gcp.BucketConfig{
			Name:          envutil.String("RESOURCE_IMAGES_BUCKET", gcp.DefaultResourceImagesBucket),
			CDNDomain:     envutil.String("RESOURCE_IMAGES_CDN_DOMAIN", ""),
			UploadTimeout: envutil.Seconds("STORAGE_UPLOAD_TIMEOUT_SECONDS", 30*time.Second),
		},

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisDB:       envutil.Int("REDIS_DB", 0),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "aet-studio"),
			Environment: envutil.String("OTEL_ENVIRONMENT", envutil.String("LOG_MODE", "development")),
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1),
		},
		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
	}

	cfg.ObjectStorageMode, cfg.StorageModeCompatFallback = resolveStorageMode(
		strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", "")),
		cfg.StorageEmulatorHost,
		gcp.HasExplicitCredentials(),
	)

	if cfg.ImageBatchSize <= 0 {
		cfg.ImageBatchSize = 5
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	if cfg.Database.PostgresDSN() == "" {
		log.Info("No postgres configured; using sqlite", "path", cfg.Database.SQLitePath)
	}
	return cfg
}

// resolveStorageMode picks the object storage mode when OBJECT_STORAGE_MODE is unset: the
// emulator when STORAGE_EMULATOR_HOST is set, gcs when credentials are supplied, otherwise
// disabled (images stay inline).
func resolveStorageMode(raw, emulatorHost string, hasCreds bool) (mode string, compat bool) {
	switch {
	case raw == "none" || raw == "off":
		return string(gcp.ObjectStorageModeDisabled), false
	case raw != "":
		return raw, false
	case emulatorHost != "":
		return string(gcp.ObjectStorageModeGCSEmulator), true
	case hasCreds:
		return string(gcp.ObjectStorageModeGCS), false
	default:
		return string(gcp.ObjectStorageModeDisabled), false
	}
}
