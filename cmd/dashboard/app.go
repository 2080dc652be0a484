package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/couchcryptid/terranova-dashboard/internal/adapter/api"
	"github.com/couchcryptid/terranova-dashboard/internal/config"
	"github.com/couchcryptid/terranova-dashboard/internal/mapview"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
	"github.com/couchcryptid/terranova-dashboard/internal/panel"
	"github.com/couchcryptid/terranova-dashboard/internal/pipeline"
)

// app bundles the wired dashboard components shared by serve and render.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	client   *api.Client
	asker    *api.CachedAsker
	mapView  *mapview.Map
	panel    *panel.Renderer
	pipeline *pipeline.Pipeline
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, observability.NewLogger(cfg), nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	metrics := observability.NewMetrics()

	apiBase := api.ResolveAPIBase(cfg.APIBaseOverride, cfg.PageOrigin)
	client := api.NewClient(apiBase, cfg.FetchTimeout, cfg.Variant, logger, metrics)
	asker, err := api.NewCachedAsker(client, cfg.AnswerCacheSize, metrics)
	if err != nil {
		return nil, fmt.Errorf("create answer cache: %w", err)
	}
	logger.Info("api client configured", "api_base", apiBase, "variant", cfg.Variant, "timeout", cfg.FetchTimeout)

	m := mapview.New(metrics)
	r := panel.NewRenderer(language.AmericanEnglish)
	p := pipeline.New(client, asker, m, r, logger, metrics, pipeline.Options{
		RoleVariant:      cfg.Variant == config.VariantRole,
		ScenarioDebounce: cfg.ScenarioDebounce,
		SuggestDebounce:  cfg.SuggestDebounce,
	})
	m.SetSelectHandler(func(id string) {
		p.Dispatch(ctx, pipeline.SelectFire{ID: id})
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		client:   client,
		asker:    asker,
		mapView:  m,
		panel:    r,
		pipeline: p,
	}, nil
}
