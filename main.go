package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ZeshiKing/sydney-property-ai-Arthur/api"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/config"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/fetcher"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/models"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/services"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/sources"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/storage"
	"github.com/ZeshiKing/sydney-property-ai-Arthur/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger()

	registry := fetcher.NewRegistry()
	sources.RegisterAll(registry, cfg.Sources, logger)

	var browser fetcher.PageFetcher
	for _, src := range cfg.Sources {
		if src.RequiresBrowser {
			browser = fetcher.NewBrowserFetcher()
			break
		}
	}

	orch := fetcher.New(cfg.Sources, registry, fetcher.Options{
		MaxConcurrentTotal: cfg.MaxConcurrentTotal,
		CacheTTL:           cfg.CacheTTL(),
		Browser:            browser,
		Retry: utils.RetryPolicy{
			JitterMin:      1 * time.Second,
			JitterMax:      3 * time.Second,
			RateLimitDelay: cfg.RateLimitBackoff(),
		},
	}, logger)

	builder := sources.NewURLBuilder(cfg.SearchPages, logger)
	pipeline := services.NewPipeline(builder, orch, cfg.Sources, logger)

	if cfg.StorageEnabled {
		pg, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("[main] PostgreSQL unavailable: %v, falling back to CSV", err)
			pipeline.AttachSink(storage.NewCSVWriter(cfg.CSVOutputPath, logger))
		} else {
			defer pg.Close()
			pipeline.AttachSink(pg)
		}
	} else if cfg.CSVOutputPath != "" {
		pipeline.AttachSink(storage.NewCSVWriter(cfg.CSVOutputPath, logger))
	}

	if cfg.ServeAPI {
		runServer(cfg, pipeline, orch, logger)
		return
	}

	runOnce(cfg, pipeline, logger)
}

func runServer(cfg *config.Config, pipeline *services.Pipeline, orch *fetcher.Orchestrator, logger *utils.Logger) {
	health := fetcher.NewHealthChecker(orch, logger)
	server := api.NewServer(cfg.APIPort, api.NewHandlers(pipeline, health, logger), logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Error("[main] Server error: %v", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("[main] Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("[main] Shutdown error: %v", err)
	}
}

// runOnce executes a single search described by environment variables and
// prints the report.
func runOnce(cfg *config.Config, pipeline *services.Pipeline, logger *utils.Logger) {
	query := queryFromEnv(cfg)

	result, err := pipeline.Search(context.Background(), query)
	if err != nil {
		logger.Error("[main] Search failed: %v", err)
		os.Exit(1)
	}

	services.NewReportPrinter(os.Stdout).Print(result)
}

func queryFromEnv(cfg *config.Config) models.SearchQuery {
	query := models.SearchQuery{
		Suburb:          envStr("SEARCH_SUBURB", "bondi"),
		PropertyType:    envStr("SEARCH_PROPERTY_TYPE", ""),
		ParkingRequired: envStr("SEARCH_PARKING", "") != "",
		Limit:           cfg.DefaultLimit,
	}
	if n, ok := envInt("SEARCH_BEDROOMS_MIN"); ok {
		query.BedroomsMin = models.Int(n)
	}
	if n, ok := envInt("SEARCH_BATHROOMS_MIN"); ok {
		query.BathroomsMin = models.Int(n)
	}
	if n, ok := envInt("SEARCH_PRICE_MIN"); ok {
		query.PriceMin = models.Float64(float64(n))
	}
	if n, ok := envInt("SEARCH_PRICE_MAX"); ok {
		query.PriceMax = models.Float64(float64(n))
	}
	return query
}

func envStr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}
