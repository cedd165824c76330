package memory

import (
	"cmp"
	"context"
	"sort"

	"carrest/internal/core/apperror"
	"carrest/internal/core/id"
	"carrest/internal/domain"
	"carrest/internal/domain/car"
)

var _ car.Repository = (*CarRepository)(nil)

// CarRepository is an in-memory implementation of car.Repository.
type CarRepository struct {
	store *Store
}

// NewCarRepository creates an in-memory car repo.
func NewCarRepository(store *Store) *CarRepository {
	return &CarRepository{store: store}
}

func toRow(c *car.Car) carRow {
	return carRow{
		id:             c.ID,
		year:           c.ManufactureYear,
		manufacturerID: c.Manufacturer.ID,
		carModelID:     c.CarModel.ID,
		categoryID:     c.Category.ID,
	}
}

// load joins reference names into a car. Caller holds mu.
func (r *CarRepository) load(row carRow) *car.Car {
	c := car.NewCar(row.year, row.manufacturerID, row.carModelID, row.categoryID)
	c.ID = row.id
	c.Manufacturer.Name = r.store.manufacturers.rows[row.manufacturerID]
	c.CarModel.Name = r.store.carModels.rows[row.carModelID]
	c.Category.Name = r.store.categories.rows[row.categoryID]
	return c
}

// checkConstraints mirrors the foreign keys and the unique car model binding.
// Caller holds mu.
func (r *CarRepository) checkConstraints(row carRow) error {
	s := r.store
	if _, ok := s.manufacturers.rows[row.manufacturerID]; !ok {
		return domain.NewConstraintError(domain.ErrForeignKeyViolation, car.ConstraintManufacturerFK, nil)
	}
	if _, ok := s.carModels.rows[row.carModelID]; !ok {
		return domain.NewConstraintError(domain.ErrForeignKeyViolation, car.ConstraintCarModelFK, nil)
	}
	if _, ok := s.categories.rows[row.categoryID]; !ok {
		return domain.NewConstraintError(domain.ErrForeignKeyViolation, car.ConstraintCategoryFK, nil)
	}
	for _, other := range s.cars {
		if other.carModelID == row.carModelID && other.id != row.id {
			return domain.NewConstraintError(domain.ErrUniqueViolation, car.ConstraintCarModelUnique, nil)
		}
	}
	return nil
}

func (r *CarRepository) Create(ctx context.Context, c *car.Car) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row := toRow(c)
	row.id = 0
	if err := r.checkConstraints(row); err != nil {
		return err
	}

	r.store.carSeq++
	row.id = r.store.carSeq
	r.store.cars[row.id] = row
	c.ID = row.id
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, carID id.ID) (*car.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row, ok := r.store.cars[carID]
	if !ok {
		return nil, apperror.NewNotFound(car.EntityName, carID)
	}
	return r.load(row), nil
}

func (r *CarRepository) Update(ctx context.Context, c *car.Car) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.cars[c.ID]; !ok {
		return apperror.NewNotFound(car.EntityName, c.ID)
	}

	row := toRow(c)
	if err := r.checkConstraints(row); err != nil {
		return err
	}
	r.store.cars[c.ID] = row
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, carID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.cars[carID]; !ok {
		return apperror.NewNotFound(car.EntityName, carID)
	}
	delete(r.store.cars, carID)
	return nil
}

func (r *CarRepository) FindByCarModel(ctx context.Context, carModelID id.ID) (*car.Car, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.cars {
		if row.carModelID == carModelID {
			return r.load(row), nil
		}
	}
	return nil, apperror.NewNotFound(car.EntityName, carModelID)
}

func (r *CarRepository) ExistsByCarModel(ctx context.Context, carModelID id.ID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, row := range r.store.cars {
		if row.carModelID == carModelID {
			return true, nil
		}
	}
	return false, nil
}

func (r *CarRepository) List(ctx context.Context, filter car.Filter) (domain.ListResult[*car.Car], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var cars []*car.Car
	for _, row := range r.store.cars {
		if filter.ManufacturerID != nil && row.manufacturerID != *filter.ManufacturerID {
			continue
		}
		if filter.CategoryID != nil && row.categoryID != *filter.CategoryID {
			continue
		}
		cars = append(cars, r.load(row))
	}

	sort.Slice(cars, func(i, j int) bool {
		a, b := cars[i], cars[j]
		if c := compareCars(a, b, filter.OrderBy); c != 0 {
			if filter.Descending {
				return c > 0
			}
			return c < 0
		}
		if filter.OrderBy == "" || filter.OrderBy == car.SortKeyID {
			return false
		}
		return a.ID < b.ID
	})

	result := domain.ListResult[*car.Car]{TotalCount: int64(len(cars))}
	result.Items = window(cars, filter.ListFilter)
	return result, nil
}

func compareCars(a, b *car.Car, key string) int {
	switch key {
	case car.SortKeyYear:
		return cmp.Compare(a.ManufactureYear, b.ManufactureYear)
	case car.SortKeyManufacturer:
		return cmp.Compare(a.Manufacturer.ID, b.Manufacturer.ID)
	case car.SortKeyCarModel:
		return cmp.Compare(a.CarModel.ID, b.CarModel.ID)
	case car.SortKeyCategory:
		return cmp.Compare(a.Category.ID, b.Category.ID)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}
