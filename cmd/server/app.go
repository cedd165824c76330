package main

import (
	"context"
	"fmt"

	"carrest/internal/config"
	"carrest/internal/core/tx"
	"carrest/internal/domain/audit"
	"carrest/internal/domain/car"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
	v1 "carrest/internal/infrastructure/http/v1"
	"carrest/internal/infrastructure/http/v1/middleware"
	"carrest/internal/infrastructure/storage/memory"
	"carrest/internal/infrastructure/storage/postgres"
	"carrest/internal/infrastructure/storage/postgres/catalog_repo"
	"carrest/pkg/logger"
)

// repositories is one storage provider's set of repositories.
type repositories struct {
	txManager     tx.Manager
	storage       tx.Pinger
	manufacturers manufacturer.Repository
	categories    category.Repository
	carModels     carmodel.Repository
	cars          car.Repository
	audit         audit.Store
	close         func()
}

// app holds everything the HTTP server needs.
type app struct {
	storage  tx.Pinger
	services v1.Services
	audit    *audit.Recorder
	close    func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	var (
		repos *repositories
		err   error
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repos = memoryRepositories()
	case config.DriverPostgres:
		repos, err = postgresRepositories(ctx, cfg)
	default:
		err = fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	services := v1.Services{
		Manufacturers: manufacturer.NewService(repos.manufacturers, repos.txManager),
		Categories:    category.NewService(repos.categories, repos.txManager),
		CarModels:     carmodel.NewService(repos.carModels, repos.txManager),
	}
	services.Cars = car.NewService(car.ServiceConfig{
		Repo:          repos.cars,
		TxManager:     repos.txManager,
		Manufacturers: services.Manufacturers,
		CarModels:     services.CarModels,
		Categories:    services.Categories,
	})

	a := &app{storage: repos.storage, services: services, close: repos.close}

	if cfg.Audit.Enabled {
		a.audit = audit.NewRecorder(repos.audit)
		v1.AttachAudit(a.audit, services)
		logger.Info(ctx, "audit trail enabled", "compress_threshold", cfg.Audit.CompressThreshold)
	}

	return a, nil
}

// routerConfig builds the HTTP router configuration for this app.
func (a *app) routerConfig(cfg *config.Config, log *logger.Logger, validator middleware.JWTValidator) v1.RouterConfig {
	rc := v1.RouterConfig{
		Logger:       log,
		JWTValidator: validator,
		Storage:      a.storage,
		Services:     a.services,
		Debug:        cfg.Server.IsDevelopment() && cfg.Server.LogLevel == "debug",
	}
	if a.audit != nil {
		rc.Audit = a.audit
	}
	return rc
}

func memoryRepositories() *repositories {
	store := memory.NewStore()
	return &repositories{
		txManager:     memory.NewTxManager(store),
		storage:       store,
		manufacturers: memory.NewManufacturerRepository(store),
		categories:    memory.NewCategoryRepository(store),
		carModels:     memory.NewCarModelRepository(store),
		cars:          memory.NewCarRepository(store),
		audit:         memory.NewAuditStore(store),
		close:         func() {},
	}
}

func postgresRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, postgres.MigrateUp); err != nil {
			pool.Close()
			return nil, err
		}
	}

	txManager := postgres.NewTxManager(pool)
	auditStore, err := postgres.NewAuditStore(txManager, cfg.Audit.CompressThreshold)
	if err != nil {
		pool.Close()
		return nil, err
	}

	pool.LogStats(ctx)

	return &repositories{
		txManager:     txManager,
		storage:       pool,
		manufacturers: catalog_repo.NewManufacturerRepo(txManager),
		categories:    catalog_repo.NewCategoryRepo(txManager),
		carModels:     catalog_repo.NewCarModelRepo(txManager),
		cars:          catalog_repo.NewCarRepo(txManager),
		audit:         auditStore,
		close:         pool.Close,
	}, nil
}

func openPool(ctx context.Context, cfg *config.Config) (*postgres.Pool, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}
