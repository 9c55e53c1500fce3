// Package control wires configuration into the running application and
// manages its lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pressly/goose/v3"

	"github.com/craftly/craftd/internal/api"
	"github.com/craftly/craftd/internal/core/config"
	"github.com/craftly/craftd/internal/infra/provider"
	redisclient "github.com/craftly/craftd/internal/infra/redis"
	"github.com/craftly/craftd/internal/infra/storage"
	"github.com/craftly/craftd/internal/infra/storage/memory"
	"github.com/craftly/craftd/internal/infra/storage/postgres"
	"github.com/craftly/craftd/internal/resilience/admission"
	"github.com/craftly/craftd/internal/resilience/cache"
	"github.com/craftly/craftd/internal/service/generation"
	"github.com/craftly/craftd/internal/service/licensing"
	"github.com/craftly/craftd/internal/service/workspace"
	"github.com/craftly/craftd/migrations"
)

// App is the assembled service.
type App struct {
	cfg       *config.AppConfig
	server    *api.Server
	db        *postgres.DB
	redis     *redisclient.Client
	licensing *provider.LicensingClient
	janitor   *cache.Janitor
	log       *slog.Logger
}

// NewApp initializes every dependency from config. Postgres and Redis
// are optional: without them the app falls back to in-process storage
// and caching, which is how tests and local development run.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	log := slog.Default()
	app := &App{cfg: cfg, log: log}

	// 1. Storage
	var (
		workspaceRepo storage.WorkspaceRepository
		brandKitRepo  storage.BrandKitRepository
		campaignRepo  storage.CampaignRepository
		assetRepo     storage.AssetRepository
	)
	health := map[string]api.HealthChecker{}

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		app.db = db

		if err := MigrateUp(db); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		workspaceRepo = postgres.NewWorkspaceRepo(db)
		brandKitRepo = postgres.NewBrandKitRepo(db)
		campaignRepo = postgres.NewCampaignRepo(db)
		assetRepo = postgres.NewAssetRepo(db)
		health["database"] = db.Health
	} else {
		log.Warn("No database configured, using in-memory storage")
		store := memory.NewStorage()
		workspaceRepo = store
		brandKitRepo = store.BrandKits()
		campaignRepo = store.Campaigns()
		assetRepo = store.Assets()
	}

	// 2. Result cache
	var resultCache cache.Store
	if cfg.Redis.URL != "" {
		rc, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		app.redis = rc
		resultCache = cache.NewRedis(rc, log)
		health["redis"] = rc.Health
	} else {
		mem := cache.NewMemory()
		resultCache = mem
		app.janitor = cache.NewJanitor(mem, cfg.Cache.SweepInterval)
	}

	// 3. Providers
	captioner := provider.NewOpenAICaptioner(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.Model)
	render := provider.NewRenderClient(cfg.Providers.Render.URL, cfg.Providers.Render.APIKey)

	var verifier provider.LicenseVerifier
	if cfg.Providers.Licensing.Endpoint != "" {
		lc, err := provider.NewLicensingClient(ctx, cfg.Providers.Licensing.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to init licensing client: %w", err)
		}
		app.licensing = lc
		verifier = lc
	} else {
		log.Warn("No licensing endpoint configured, license checks disabled")
		verifier = disabledVerifier{}
	}

	// 4. Resilience + services
	ctrl := admission.NewController(cfg.RateLimits.Limits())

	gen := generation.NewService(
		generation.Config{
			CaptionPolicy: cfg.Resilience.Captions.Policy(),
			ImagePolicy:   cfg.Resilience.Images.Policy(),
			CacheTTL:      cfg.Cache.DefaultTTL,
		},
		captioner, render,
		brandKitRepo, campaignRepo, assetRepo,
		resultCache, log,
	)

	lic := licensing.NewService(
		licensing.Config{
			Policy:   cfg.Resilience.Licensing.Policy(),
			CacheTTL: cfg.Cache.DefaultTTL,
		},
		verifier, assetRepo, resultCache, log,
	)

	ws := workspace.NewService(workspaceRepo, brandKitRepo, campaignRepo, assetRepo)

	app.server = api.NewServer(
		cfg.Server.Port,
		cfg.IsProduction(),
		cfg.RateLimits.Costs,
		ctrl, gen, lic, ws,
		health, log,
	)

	return app, nil
}

// Start starts the HTTP server and background workers.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.server.Start(); err != nil && err != http.ErrServerClosed {
			a.log.Error("API server failed", "error", err)
		}
	}()

	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}
	if a.janitor != nil {
		go a.janitor.Start(ctx)
	}

	a.log.Info("API server started", "port", a.cfg.Server.Port, "environment", a.cfg.Environment)
	return nil
}

// Stop shuts the application down gracefully.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping craftd...")

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if a.licensing != nil {
		if err := a.licensing.Close(); err != nil {
			a.log.Warn("Failed to close licensing client", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}

	return a.server.Stop(ctx)
}

// MigrateUp applies embedded goose migrations to the database.
func MigrateUp(db *postgres.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db.DB.DB, ".")
}
