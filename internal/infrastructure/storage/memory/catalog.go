package memory

import (
	"context"
	"sort"

	"carrest/internal/core/apperror"
	"carrest/internal/core/entity"
	"carrest/internal/core/id"
	"carrest/internal/domain"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
)

// CatalogRepository is an in-memory implementation of domain.CatalogRepository.
type CatalogRepository[T entity.Named] struct {
	store *Store
	table *catalogTable
	newFn func() T
}

// NewManufacturerRepository creates an in-memory manufacturer repo.
func NewManufacturerRepository(store *Store) *CatalogRepository[*manufacturer.Manufacturer] {
	return &CatalogRepository[*manufacturer.Manufacturer]{
		store: store,
		table: store.manufacturers,
		newFn: func() *manufacturer.Manufacturer { return &manufacturer.Manufacturer{} },
	}
}

// NewCategoryRepository creates an in-memory category repo.
func NewCategoryRepository(store *Store) *CatalogRepository[*category.Category] {
	return &CatalogRepository[*category.Category]{
		store: store,
		table: store.categories,
		newFn: func() *category.Category { return &category.Category{} },
	}
}

// NewCarModelRepository creates an in-memory car model repo.
func NewCarModelRepository(store *Store) *CatalogRepository[*carmodel.CarModel] {
	return &CatalogRepository[*carmodel.CarModel]{
		store: store,
		table: store.carModels,
		newFn: func() *carmodel.CarModel { return &carmodel.CarModel{} },
	}
}

func (r *CatalogRepository[T]) build(rowID id.ID, name string) T {
	e := r.newFn()
	e.SetID(rowID)
	e.SetName(name)
	return e
}

func (r *CatalogRepository[T]) uniqueViolation() error {
	return domain.NewConstraintError(domain.ErrUniqueViolation, r.table.uniqueConstraint, nil)
}

func (r *CatalogRepository[T]) Create(ctx context.Context, e T) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.table.nameTaken(e.GetName(), 0) {
		return r.uniqueViolation()
	}

	r.table.seq++
	r.table.rows[r.table.seq] = e.GetName()
	e.SetID(r.table.seq)
	return nil
}

func (r *CatalogRepository[T]) GetByID(ctx context.Context, rowID id.ID) (T, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	name, ok := r.table.rows[rowID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(r.table.name, rowID)
	}
	return r.build(rowID, name), nil
}

func (r *CatalogRepository[T]) FindByName(ctx context.Context, name string) (T, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for rowID, n := range r.table.rows {
		if n == name {
			return r.build(rowID, n), nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound(r.table.name, name)
}

func (r *CatalogRepository[T]) Update(ctx context.Context, e T) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.table.rows[e.GetID()]; !ok {
		return apperror.NewNotFound(r.table.name, e.GetID())
	}
	if r.table.nameTaken(e.GetName(), e.GetID()) {
		return r.uniqueViolation()
	}

	r.table.rows[e.GetID()] = e.GetName()
	return nil
}

// Delete removes the row and every car referencing it.
func (r *CatalogRepository[T]) Delete(ctx context.Context, rowID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.table.rows[rowID]; !ok {
		return apperror.NewNotFound(r.table.name, rowID)
	}

	delete(r.table.rows, rowID)
	r.store.cascade(r.table, rowID)
	return nil
}

func (r *CatalogRepository[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]id.ID, 0, len(r.table.rows))
	for rowID := range r.table.rows {
		ids = append(ids, rowID)
	}

	byName := filter.OrderBy == manufacturer.SortKeyName
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if byName && r.table.rows[a] != r.table.rows[b] {
			if filter.Descending {
				return r.table.rows[a] > r.table.rows[b]
			}
			return r.table.rows[a] < r.table.rows[b]
		}
		if !byName && filter.Descending {
			return a > b
		}
		return a < b
	})

	result := domain.ListResult[T]{TotalCount: int64(len(ids))}
	for _, rowID := range window(ids, filter) {
		result.Items = append(result.Items, r.build(rowID, r.table.rows[rowID]))
	}
	return result, nil
}

func (r *CatalogRepository[T]) Exists(ctx context.Context, rowID id.ID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.table.rows[rowID]
	return ok, nil
}

func (r *CatalogRepository[T]) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.table.nameTaken(name, 0), nil
}

// window applies offset and limit to an ordered slice.
func window[E any](items []E, filter domain.ListFilter) []E {
	if filter.Offset >= len(items) {
		return nil
	}
	items = items[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items
}

var (
	_ manufacturer.Repository = (*CatalogRepository[*manufacturer.Manufacturer])(nil)
	_ category.Repository     = (*CatalogRepository[*category.Category])(nil)
	_ carmodel.Repository     = (*CatalogRepository[*carmodel.CarModel])(nil)
)
