//go:build integration

package catalog_repo_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"carrest/internal/core/apperror"
	appctx "carrest/internal/core/context"
	"carrest/internal/domain"
	"carrest/internal/domain/audit"
	"carrest/internal/domain/car"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
	"carrest/internal/infrastructure/storage/postgres"
	"carrest/internal/infrastructure/storage/postgres/catalog_repo"
)

// setupTestDB starts a PostgreSQL container and applies the migrations.
func setupTestDB(t *testing.T) (*postgres.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("carrest"),
		tcpostgres.WithUsername("carrest"),
		tcpostgres.WithPassword("carrest"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(connStr))
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}

	if err := postgres.Migrate(ctx, pool, postgres.MigrateUp); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

type services struct {
	txManager     *postgres.TxManager
	manufacturers *manufacturer.Service
	categories    *category.Service
	carModels     *carmodel.Service
	cars          *car.Service
}

func newServices(pool *postgres.Pool) services {
	txm := postgres.NewTxManager(pool)
	s := services{
		txManager:     txm,
		manufacturers: manufacturer.NewService(catalog_repo.NewManufacturerRepo(txm), txm),
		categories:    category.NewService(catalog_repo.NewCategoryRepo(txm), txm),
		carModels:     carmodel.NewService(catalog_repo.NewCarModelRepo(txm), txm),
	}
	s.cars = car.NewService(car.ServiceConfig{
		Repo:          catalog_repo.NewCarRepo(txm),
		TxManager:     txm,
		Manufacturers: s.manufacturers,
		CarModels:     s.carModels,
		Categories:    s.categories,
	})
	return s
}

func TestPostgres(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := newServices(pool)

	t.Run("catalog crud and unique names", func(t *testing.T) {
		m := manufacturer.NewManufacturer("Tesla")
		require.NoError(t, s.manufacturers.Create(ctx, m))
		assert.NotZero(t, m.ID)

		err := s.manufacturers.Create(ctx, manufacturer.NewManufacturer("Tesla"))
		assert.True(t, apperror.IsDuplicateName(err))

		input := manufacturer.NewManufacturer("Tesla Motors")
		input.ID = m.ID
		updated, err := s.manufacturers.Update(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "Tesla Motors", updated.Name)

		found, err := s.manufacturers.FindByName(ctx, "Tesla Motors")
		require.NoError(t, err)
		assert.Equal(t, m.ID, found.ID)

		require.NoError(t, s.manufacturers.Delete(ctx, m.ID))
		_, err = s.manufacturers.GetByID(ctx, m.ID)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("unique constraint decides the race", func(t *testing.T) {
		repo := catalog_repo.NewCategoryRepo(s.txManager)
		svc := category.NewService(repo, s.txManager)
		svc.Hooks().OnBeforeCreate(func(ctx context.Context, c *category.Category) error {
			return repo.Create(ctx, category.NewCategory(c.Name))
		})

		err := svc.Create(ctx, category.NewCategory("Racer"))
		require.Error(t, err)
		assert.True(t, apperror.IsDuplicateName(err))
		assert.True(t, errors.Is(err, domain.ErrUniqueViolation))
	})

	t.Run("cars with references", func(t *testing.T) {
		m := manufacturer.NewManufacturer("Audi")
		require.NoError(t, s.manufacturers.Create(ctx, m))
		cm := carmodel.NewCarModel("A4")
		require.NoError(t, s.carModels.Create(ctx, cm))
		cm2 := carmodel.NewCarModel("A6")
		require.NoError(t, s.carModels.Create(ctx, cm2))
		cat := category.NewCategory("Sedan")
		require.NoError(t, s.categories.Create(ctx, cat))

		first, err := s.cars.Create(ctx, car.NewCar(2019, m.ID, cm.ID, cat.ID))
		require.NoError(t, err)
		assert.Equal(t, "Audi", first.Manufacturer.Name)
		assert.Equal(t, "A4", first.CarModel.Name)
		assert.Equal(t, "Sedan", first.Category.Name)

		_, err = s.cars.Create(ctx, car.NewCar(2020, m.ID, cm.ID, cat.ID))
		assert.True(t, apperror.IsCarConflict(err))

		second, err := s.cars.Create(ctx, car.NewCar(2015, m.ID, cm2.ID, cat.ID))
		require.NoError(t, err)

		page, err := s.cars.ListByManufacturer(ctx, m.ID, domain.PageRequest{
			PageSize:  10,
			SortField: "manufactureYear",
			Direction: domain.SortAsc,
		})
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		assert.Equal(t, second.ID, page.Content[0].ID)
		assert.Equal(t, int64(2), page.TotalElements)

		bound, err := s.cars.GetByCarModel(ctx, cm2.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, bound.ID)

		// Cascade removes both cars.
		require.NoError(t, s.categories.Delete(ctx, cat.ID))
		_, err = s.cars.GetByID(ctx, first.ID)
		assert.True(t, apperror.IsNotFound(err))
		_, err = s.cars.GetByID(ctx, second.ID)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("transaction rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := catalog_repo.NewCategoryRepo(s.txManager).Create(ctx, category.NewCategory("Ghost")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		exists, err := catalog_repo.NewCategoryRepo(s.txManager).ExistsByName(ctx, "Ghost")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("audit store compresses large snapshots", func(t *testing.T) {
		store, err := postgres.NewAuditStore(s.txManager, 64)
		require.NoError(t, err)
		recorder := audit.NewRecorder(store)

		small := manufacturer.NewManufacturer("Kia")
		small.ID = 500
		big := manufacturer.NewManufacturer(strings.Repeat("x", 200))
		big.ID = 500

		userCtx := appctx.WithUser(ctx, &appctx.UserContext{Email: "auditor@example.com"})
		require.NoError(t, recorder.Record(userCtx, audit.EntityManufacturers, audit.ActionCreate, small.ID, small))
		require.NoError(t, recorder.Record(userCtx, audit.EntityManufacturers, audit.ActionUpdate, big.ID, big))

		entries, err := recorder.History(ctx, audit.EntityManufacturers, 500, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, audit.ActionUpdate, entries[0].Action)
		assert.Equal(t, "auditor@example.com", entries[0].UserEmail)

		var snapshot map[string]any
		require.NoError(t, json.Unmarshal(entries[0].Snapshot, &snapshot))
		assert.Equal(t, strings.Repeat("x", 200), snapshot["name"])

		var compressed int
		require.NoError(t, pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM audit_log WHERE compression_algo = 'zstd'").Scan(&compressed))
		assert.Equal(t, 1, compressed)
	})

	t.Run("migration status and ping", func(t *testing.T) {
		require.NoError(t, postgres.Migrate(ctx, pool, postgres.MigrateStatus))
		require.NoError(t, pool.Ping(ctx))
	})
}
