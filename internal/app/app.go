package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/data/db"
	"github.com/yungbote/aet-studio-backend/internal/http"
	"github.com/yungbote/aet-studio-backend/internal/observability"
	"github.com/yungbote/aet-studio-backend/internal/platform/envutil"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.Init(log)
	}
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	database, err := db.NewDatabase(log, cfg.Database)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(database.DB()); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(database.DB(), log)
	serviceset, err := wireServices(database.DB(), log, cfg, reposet, clients)
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, err
	}

	sqlDB, err := database.DB().DB()
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, fmt.Errorf("database handle: %w", err)
	}
	handlerset := wireHandlers(log, serviceset, sqlDB)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	log.Info("App ready",
		"ai_provider", clients.AI.Name,
		"ai_available", clients.AI.Text.Available(),
		"storage_enabled", clients.Bucket != nil,
		"db_dialect", database.Dialect(),
	)

	return &App{
		Log:          log,
		DB:           database,
		Router:       router,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Listening", "addr", addr)
	return (&http.Server{Engine: a.Router}).Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Clients.Redis != nil {
		_ = a.Clients.Redis.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
