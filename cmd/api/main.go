package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/project-service/internal/api/http"
	"github.com/spec-kit/project-service/internal/api/http/handlers"
	"github.com/spec-kit/project-service/internal/auth"
	"github.com/spec-kit/project-service/internal/config"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/graph"
	"github.com/spec-kit/project-service/internal/observability"
	"github.com/spec-kit/project-service/internal/persistence"
	"github.com/spec-kit/project-service/internal/repository"
	"github.com/spec-kit/project-service/internal/service"
	"github.com/spec-kit/project-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	projectRepo, closeStore, err := openProjectStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open project store", zap.Error(err))
	}
	defer closeStore()

	keySource := auth.NewHTTPKeySource(cfg.Auth.JWKSURL(), cfg.Auth.KeyFetchTimeout())
	keyStore, err := auth.NewKeyStore(ctx, keySource, cfg.Auth.KeyRefreshMinInterval(), logger)
	if err != nil {
		logger.Fatal("failed to load signing keys", zap.Error(err), zap.String("url", cfg.Auth.JWKSURL()))
	}
	verifier := auth.NewVerifier(keyStore, cfg.Auth.Audience, cfg.Auth.Issuers(), logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(dispatcher, logger)

	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo: projectRepo,
		Dispatcher:  dispatcher,
	})

	schema, err := graph.NewSchema(graph.NewResolver(projectService, logger))
	if err != nil {
		logger.Fatal("failed to build graphql schema", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, projectRepo),
		GraphQL:     handlers.NewGraphQLHandler(schema),
		Metrics:     handlers.NewMetricsHandler(metrics),
		AuthContext: auth.NewContextBuilder(verifier, cfg.Auth.RequireToken),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("require_token", cfg.Auth.RequireToken))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// openProjectStore connects the configured document store and returns its repository
// together with a function releasing the connection.
func openProjectStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ProjectRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.EnsureContainer {
			if err := persistence.EnsureProjectContainer(ctx, pg.PoolHandle(), cfg.Store.Container, logger); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return repository.NewPostgresProjectRepository(pg.PoolHandle(), cfg.Store.Container), pg.Close, nil
	case config.StoreDriverRedis:
		rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
		return repository.NewRedisProjectRepository(rdb.Client, cfg.Store.Container), rdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
