package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/entitlement"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/engine"
	"server/internal/studio"
	"server/internal/studio/contract"
	"server/internal/studio/prompt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	profiles := repo.NewProfileRepository(runner)
	projects := repo.NewProjectRepository(runner)
	subscriptions := repo.NewSubscriptionRepository(runner)
	usageStore := repo.NewUsageRepository(runner)

	resolver := entitlement.NewResolver(subscriptions, usageStore, projects, logger)

	eng, err := buildEngine(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation engine")
	}

	orchestrator := studio.NewOrchestrator(resolver, prompt.NewComposer(), contract.NewValidator(), eng, usageStore, logger)
	orchestrator.EngineTimeout = cfg.EngineTimeout

	app := &handlers.App{
		Config:       cfg,
		Logger:       logger,
		Profiles:     profiles,
		Projects:     projects,
		Resolver:     resolver,
		Orchestrator: orchestrator,
	}

	var lookup middleware.CountryLookup
	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, locale falls back to headers")
	} else if countries != nil {
		lookup = countries.CountryCode
		if closer, ok := countries.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	}

	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func buildEngine(cfg *infra.Config) (engine.Engine, error) {
	switch cfg.EngineProvider {
	case "gemini":
		return engine.NewGeminiEngine(engine.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	case "openai":
		return engine.NewOpenAIEngine(engine.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
		})
	case "static":
		return engine.NewStatic(""), nil
	}
	return nil, errors.New("unsupported engine provider " + cfg.EngineProvider)
}
