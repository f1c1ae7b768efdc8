package commands

import (
	"fmt"

	"github.com/wardline/medshift/backend/internal/analytics"
	"github.com/wardline/medshift/backend/internal/contracts"
	"github.com/wardline/medshift/backend/internal/external/directory"
	"github.com/wardline/medshift/backend/internal/external/registry"
	"github.com/wardline/medshift/backend/internal/storage"
	"github.com/wardline/medshift/backend/pkg/config"
	"github.com/wardline/medshift/backend/pkg/database"
	"github.com/wardline/medshift/backend/pkg/httputil"
	"github.com/wardline/medshift/backend/pkg/logger"
	"github.com/wardline/medshift/backend/pkg/redis"
)

// deps bundles the shared wiring every command starts from.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	cache   *redis.Client
	repo    *storage.Repository
	service *analytics.Service
}

// initDeps loads config and wires the analytics service with its storage,
// cache, and external enrichment clients.
// SSOT: service construction for CLI commands happens here only.
func initDeps(withCache bool) (*deps, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (optional)
	cache := redis.Disabled()
	if withCache {
		cache, err = redis.New(cfg)
		if err != nil {
			// Reports still work without the cache
			log.WithError(err).Warn("Redis unavailable, running without report cache")
			cache = redis.Disabled()
		}
	}

	// 5. Create HTTP client
	httpClient := httputil.New(cfg, log)

	// 6. Create external enrichment clients
	var profiles contracts.ProfileProvider
	if cfg.Directory.BaseURL != "" {
		profiles = directory.NewClient(cfg.Directory, httpClient, log)
	}

	var licenses contracts.LicenseChecker
	if cfg.Registry.Enabled && cfg.Registry.BaseURL != "" {
		licenses = registry.NewClient(cfg.Registry, httpClient, log)
	}

	// 7. Create repository and service
	repo := storage.NewRepository(db.Pool)
	reportCache := redis.NewCache(cache, "medshift")
	service := analytics.NewService(repo, profiles, licenses, reportCache, cfg.Analytics, log.Zerolog())

	return &deps{
		cfg:     cfg,
		log:     log,
		db:      db,
		cache:   cache,
		repo:    repo,
		service: service,
	}, nil
}

// Close releases the connections held by the dependency bundle.
func (d *deps) Close() {
	if d.cache != nil {
		_ = d.cache.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}
