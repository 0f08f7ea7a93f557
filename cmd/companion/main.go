// Package main provides the companion server binary: the HTTP API backing
// the tabletop session tracker.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tabletopkit/companion/internal/config"
	"github.com/tabletopkit/companion/internal/game/dice"
	"github.com/tabletopkit/companion/internal/httpapi"
	"github.com/tabletopkit/companion/internal/observability"
	"github.com/tabletopkit/companion/internal/server"
	"github.com/tabletopkit/companion/internal/service"
	"github.com/tabletopkit/companion/internal/source"
	"github.com/tabletopkit/companion/internal/store"
	"github.com/tabletopkit/companion/internal/store/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	lifecycle := server.NewLifecycle(logger)

	// Select the local dataset store.
	var datasetStore store.Store
	switch cfg.Storage.Backend {
	case "postgres":
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		datasetStore = postgres.NewDatasetStore(pool.DB(), cfg.Storage.Key)

		lifecycle.Add("postgres", &server.FuncComponent{
			StartFn: func() error {
				for {
					time.Sleep(30 * time.Second)
					if err := pool.Health(ctx, 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			},
			StopFn: func() {
				pool.Close()
			},
		})
	default:
		datasetStore = store.NewFileStore(cfg.Storage.Path)
		logger.Info("using file store", zap.String("path", cfg.Storage.Path))
	}

	// Select the authoritative dataset source, if one is configured.
	var datasetSource source.Source
	switch {
	case cfg.Dataset.URL != "":
		datasetSource = source.NewHTTPSource(cfg.Dataset.URL, cfg.Dataset.FetchTimeout)
		logger.Info("authoritative dataset via http", zap.String("url", cfg.Dataset.URL))
	case cfg.Dataset.File != "":
		datasetSource = source.NewFileSource(cfg.Dataset.File)
		logger.Info("authoritative dataset via file", zap.String("file", cfg.Dataset.File))
	default:
		logger.Info("no authoritative dataset configured, running on local state only")
	}

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	svc := service.New(datasetStore, datasetSource, roller, logger)

	if err := svc.Sync(ctx); err != nil {
		logger.Fatal("initial dataset sync", zap.Error(err))
	}

	handler := httpapi.NewHandler(svc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.HTTP.AllowedOrigins)

	lifecycle.Add("http", server.NewHTTPComponent(cfg.HTTP, router, logger))

	logger.Info("companion server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("http_addr", cfg.HTTP.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
