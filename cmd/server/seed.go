package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"carrest/internal/config"
	"carrest/internal/core/apperror"
	"carrest/internal/core/entity"
	"carrest/internal/domain/car"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
	v1 "carrest/internal/infrastructure/http/v1"
	"carrest/pkg/logger"
)

// demoCar is one seeded car, referencing catalog entries by name.
type demoCar struct {
	year         int
	manufacturer string
	carModel     string
	category     string
}

var demoCars = []demoCar{
	{2019, "Audi", "A4", "Sedan"},
	{2021, "BMW", "X5", "SUV"},
	{2018, "Toyota", "Camry", "Sedan"},
	{2022, "Toyota", "RAV4", "SUV"},
	{2020, "Porsche", "911", "Coupe"},
}

// seedCmd loads demo data through the services, skipping entries that exist.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo manufacturers, categories, car models and cars",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("seeding needs the %s driver, configured driver is %s", config.DriverPostgres, cfg.Database.Driver)
		}

		ctx := logger.WithLogger(cmd.Context(), log)
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		created, err := seedDemoData(ctx, a.services)
		if err != nil {
			return err
		}

		log.Infow("seed completed", "cars_created", created)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// namedFinder looks a catalog entry up by its unique name.
type namedFinder[T entity.Named] interface {
	FindByName(ctx context.Context, name string) (T, error)
	Create(ctx context.Context, e T) error
}

// ensureNamed returns the entry called name, creating it when missing.
func ensureNamed[T entity.Named](ctx context.Context, svc namedFinder[T], name string, newFn func(string) T) (T, error) {
	found, err := svc.FindByName(ctx, name)
	if err == nil {
		return found, nil
	}
	if !apperror.IsNotFound(err) {
		return found, err
	}

	e := newFn(name)
	if err := svc.Create(ctx, e); err != nil {
		return e, fmt.Errorf("seed %s: %w", name, err)
	}
	return e, nil
}

// seedDemoData is idempotent: a car model that already has a car is left alone.
func seedDemoData(ctx context.Context, svc v1.Services) (int, error) {
	created := 0
	for _, d := range demoCars {
		m, err := ensureNamed(ctx, svc.Manufacturers, d.manufacturer, manufacturer.NewManufacturer)
		if err != nil {
			return created, err
		}
		cm, err := ensureNamed(ctx, svc.CarModels, d.carModel, carmodel.NewCarModel)
		if err != nil {
			return created, err
		}
		cat, err := ensureNamed(ctx, svc.Categories, d.category, category.NewCategory)
		if err != nil {
			return created, err
		}

		if _, err := svc.Cars.GetByCarModel(ctx, cm.ID); err == nil {
			continue
		} else if !apperror.IsNotFound(err) {
			return created, err
		}

		if _, err := svc.Cars.Create(ctx, car.NewCar(d.year, m.ID, cm.ID, cat.ID)); err != nil {
			return created, fmt.Errorf("seed car %s: %w", d.carModel, err)
		}
		created++
	}
	return created, nil
}
