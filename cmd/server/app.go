package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"apod/server/internal/cache"
	"apod/server/internal/config"
	"apod/server/internal/db"
	"apod/server/internal/metrics"
	"apod/server/internal/network"
	"apod/server/internal/repository"
	"apod/server/internal/service"
	"apod/server/internal/service/nasa"
	"apod/server/internal/service/wallpaper"
	"apod/server/internal/snowflake"
)

const providerProbeTimeout = 10 * time.Second

// app holds the components shared by every command.
type app struct {
	cfg     config.Config
	factory *network.ClientFactory
	db      *sql.DB
	repo    repository.APODRepository
	metrics *metrics.Metrics
	cache   *cache.Cache
	apod    service.APODService
	cached  service.CachedAPODService
}

func newApp(cfg config.Config) (*app, error) {
	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ids, err := snowflake.NewGenerator(cfg.NodeID)
	if err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("init id generator: %w", err)
	}

	m := metrics.New()
	repo := repository.NewAPODRepository(dbConn, ids)
	clientFactory := network.NewClientFactory(cfg.ProxyURL)

	provider := nasa.NewClient(cfg.ProviderURL, cfg.APIKey, cfg.ProviderQPS, clientFactory, m)
	sink := wallpaper.NewService(wallpaper.Options{
		Dir:       cfg.WallpaperDir,
		AutoPaint: cfg.PaintWallpaper,
		Metrics:   m,
	}, clientFactory)

	apod := service.NewAPODService(repo, provider, sink, service.APODOptions{
		Location: cfg.Location,
		Metrics:  m,
	})
	c := cache.New()

	return &app{
		cfg:     cfg,
		factory: clientFactory,
		db:      dbConn,
		repo:    repo,
		metrics: m,
		cache:   c,
		apod:    apod,
		cached:  service.NewCachedAPODService(apod, c, m),
	}, nil
}

// probeProvider checks that the provider host answers through the configured proxy.
func (a *app) probeProvider(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, providerProbeTimeout)
	defer cancel()
	if err := a.factory.Probe(ctx, a.cfg.ProviderURL); err != nil {
		return fmt.Errorf("probe provider %s: %w", a.cfg.ProviderURL, err)
	}
	return nil
}

func (a *app) Close() error {
	return a.db.Close()
}
