package car

import (
	"context"
	"errors"
	"fmt"

	"carrest/internal/core/apperror"
	"carrest/internal/core/entity"
	"carrest/internal/core/id"
	"carrest/internal/core/tx"
	"carrest/internal/domain"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
	"carrest/pkg/logger"
)

// SortFields is the allow-list of API sort fields.
// Reference fields sort by the referenced ID.
var SortFields = domain.SortFields{
	"carId":           SortKeyID,
	"manufactureYear": SortKeyYear,
	"manufacturer":    SortKeyManufacturer,
	"carModel":        SortKeyCarModel,
	"category":        SortKeyCategory,
}

// DefaultSortField is applied when the client sends no sortField.
const DefaultSortField = "carId"

// ServiceConfig wires the Car service.
type ServiceConfig struct {
	Repo          Repository
	TxManager     tx.Manager
	Manufacturers ReferenceChecker
	CarModels     ReferenceChecker
	Categories    ReferenceChecker
}

// Service provides business logic for cars: reference existence,
// one car per car model, and partial updates.
type Service struct {
	repo          Repository
	txManager     tx.Manager
	manufacturers ReferenceChecker
	carModels     ReferenceChecker
	categories    ReferenceChecker
	hooks         *domain.HookRegistry[*Car]
}

// NewService creates a new Car service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:          cfg.Repo,
		txManager:     cfg.TxManager,
		manufacturers: cfg.Manufacturers,
		carModels:     cfg.CarModels,
		categories:    cfg.Categories,
		hooks:         domain.NewHookRegistry[*Car](),
	}
}

// Hooks returns the hook registry for external registration.
func (s *Service) Hooks() *domain.HookRegistry[*Car] {
	return s.hooks
}

// EntityName returns the display name of the managed entity.
func (s *Service) EntityName() string {
	return EntityName
}

// Create validates references and inserts a new car.
// The returned car has its references' names loaded.
func (s *Service) Create(ctx context.Context, c *Car) (*Car, error) {
	if c == nil {
		return nil, apperror.NewNullInput(EntityName)
	}
	if err := c.Validate(ctx); err != nil {
		return nil, entity.ValidationError(EntityName, err)
	}

	if err := s.checkReferences(ctx, c, AllReferences); err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, domain.BeforeCreate, c); err != nil {
		return nil, err
	}

	var created *Car
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("create car: %w", err)
		}
		loaded, err := s.repo.GetByID(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("reload car: %w", err)
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, s.normalizeWriteErr(err, c)
	}

	s.runAfter(ctx, domain.AfterCreate, created)

	return created, nil
}

// GetByID retrieves a car by ID.
func (s *Service) GetByID(ctx context.Context, carID id.ID) (*Car, error) {
	c, err := s.repo.GetByID(ctx, carID)
	if err != nil {
		return nil, normalizeGetErr(err, EntityName, carID)
	}
	return c, nil
}

// Update loads the car, merges the patch and persists it.
func (s *Service) Update(ctx context.Context, p *Patch) (*Car, error) {
	if p == nil {
		return nil, apperror.NewNullInput(EntityName)
	}
	if id.IsNil(p.ID) {
		return nil, apperror.NewValidation("Car Id cannot be null!")
	}

	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, normalizeGetErr(err, EntityName, p.ID)
	}

	changed := p.Apply(existing)
	if err := existing.Validate(ctx); err != nil {
		return nil, entity.ValidationError(EntityName, err)
	}

	if err := s.checkReferences(ctx, existing, changed); err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, domain.BeforeUpdate, existing); err != nil {
		return nil, err
	}

	var updated *Car
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, existing); err != nil {
			return fmt.Errorf("update car: %w", err)
		}
		loaded, err := s.repo.GetByID(ctx, existing.ID)
		if err != nil {
			return fmt.Errorf("reload car: %w", err)
		}
		updated = loaded
		return nil
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(EntityName, existing.ID)
		}
		return nil, s.normalizeWriteErr(err, existing)
	}

	s.runAfter(ctx, domain.AfterUpdate, updated)

	return updated, nil
}

// Delete physically removes a car.
func (s *Service) Delete(ctx context.Context, carID id.ID) error {
	c, err := s.repo.GetByID(ctx, carID)
	if err != nil {
		return normalizeGetErr(err, EntityName, carID)
	}

	if err := s.hooks.Run(ctx, domain.BeforeDelete, c); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, carID); err != nil {
			return fmt.Errorf("delete car: %w", err)
		}
		return nil
	})
	if err != nil {
		return normalizeGetErr(err, EntityName, carID)
	}

	s.runAfter(ctx, domain.AfterDelete, c)

	return nil
}

// List returns one sorted page of cars.
func (s *Service) List(ctx context.Context, req domain.PageRequest) (domain.Page[*Car], error) {
	return s.list(ctx, req, Filter{})
}

// ListByManufacturer returns the cars of one manufacturer.
func (s *Service) ListByManufacturer(ctx context.Context, manufacturerID id.ID, req domain.PageRequest) (domain.Page[*Car], error) {
	if err := s.requireExisting(ctx, s.manufacturers, manufacturer.EntityName, manufacturerID); err != nil {
		return domain.Page[*Car]{}, err
	}
	return s.list(ctx, req, Filter{ManufacturerID: &manufacturerID})
}

// ListByCategory returns the cars of one category.
func (s *Service) ListByCategory(ctx context.Context, categoryID id.ID, req domain.PageRequest) (domain.Page[*Car], error) {
	if err := s.requireExisting(ctx, s.categories, category.EntityName, categoryID); err != nil {
		return domain.Page[*Car]{}, err
	}
	return s.list(ctx, req, Filter{CategoryID: &categoryID})
}

// GetByCarModel returns the car bound to a car model.
func (s *Service) GetByCarModel(ctx context.Context, carModelID id.ID) (*Car, error) {
	if err := s.requireExisting(ctx, s.carModels, carmodel.EntityName, carModelID); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByCarModel(ctx, carModelID)
	if err != nil {
		if apperror.IsNotFound(err) {
			notFound := apperror.NewNotFound(EntityName, carModelID)
			notFound.Message = fmt.Sprintf("Car with car model Id %d not found.", carModelID)
			return nil, notFound
		}
		return nil, normalizeGetErr(err, EntityName, carModelID)
	}
	return c, nil
}

// DependentsOfManufacturer returns every car a manufacturer delete cascades to.
func (s *Service) DependentsOfManufacturer(ctx context.Context, manufacturerID id.ID) ([]*Car, error) {
	return s.dependents(ctx, Filter{ManufacturerID: &manufacturerID})
}

// DependentsOfCategory returns every car a category delete cascades to.
func (s *Service) DependentsOfCategory(ctx context.Context, categoryID id.ID) ([]*Car, error) {
	return s.dependents(ctx, Filter{CategoryID: &categoryID})
}

// DependentsOfCarModel returns the car a car model delete cascades to, if any.
func (s *Service) DependentsOfCarModel(ctx context.Context, carModelID id.ID) ([]*Car, error) {
	c, err := s.repo.FindByCarModel(ctx, carModelID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find car by car model: %w", err)
	}
	return []*Car{c}, nil
}

func (s *Service) dependents(ctx context.Context, f Filter) ([]*Car, error) {
	result, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list dependent cars: %w", err)
	}
	return result.Items, nil
}

func (s *Service) list(ctx context.Context, req domain.PageRequest, f Filter) (domain.Page[*Car], error) {
	lf, err := req.Resolve(SortFields, DefaultSortField)
	if err != nil {
		return domain.Page[*Car]{}, err
	}
	f.ListFilter = lf

	result, err := s.repo.List(ctx, f)
	if err != nil {
		return domain.Page[*Car]{}, apperror.NewInternal(fmt.Errorf("list cars: %w", err))
	}
	return domain.NewPage(result, req), nil
}

// checkReferences verifies the flagged references exist and that a car model
// is not already bound to another car.
func (s *Service) checkReferences(ctx context.Context, c *Car, refs References) error {
	if refs.Manufacturer {
		if err := s.requireReference(ctx, s.manufacturers, manufacturer.EntityName, c.Manufacturer.ID); err != nil {
			return err
		}
	}
	if refs.CarModel {
		if err := s.requireReference(ctx, s.carModels, carmodel.EntityName, c.CarModel.ID); err != nil {
			return err
		}
		bound, err := s.repo.ExistsByCarModel(ctx, c.CarModel.ID)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("check car model binding: %w", err))
		}
		if bound {
			return carModelBound(c.CarModel.ID)
		}
	}
	if refs.Category {
		if err := s.requireReference(ctx, s.categories, category.EntityName, c.Category.ID); err != nil {
			return err
		}
	}
	return nil
}

// requireReference reports a missing reference on write as a car conflict.
func (s *Service) requireReference(ctx context.Context, checker ReferenceChecker, name string, refID id.ID) error {
	exists, err := checker.Exists(ctx, refID)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("check %s reference: %w", name, err))
	}
	if !exists {
		return referenceMissing(name, refID)
	}
	return nil
}

// requireExisting reports a missing parent on read as not found.
func (s *Service) requireExisting(ctx context.Context, checker ReferenceChecker, name string, parentID id.ID) error {
	exists, err := checker.Exists(ctx, parentID)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("check %s: %w", name, err))
	}
	if !exists {
		return apperror.NewNotFound(name, parentID)
	}
	return nil
}

// normalizeWriteErr translates constraint violations raised by storage when a
// pre-check lost a race.
func (s *Service) normalizeWriteErr(err error, c *Car) error {
	if errors.Is(err, domain.ErrUniqueViolation) || errors.Is(err, domain.ErrForeignKeyViolation) {
		var conflict *apperror.AppError
		switch domain.ConstraintName(err) {
		case ConstraintCarModelUnique:
			conflict = carModelBound(c.CarModel.ID)
		case ConstraintManufacturerFK:
			conflict = referenceMissing(manufacturer.EntityName, c.Manufacturer.ID)
		case ConstraintCarModelFK:
			conflict = referenceMissing(carmodel.EntityName, c.CarModel.ID)
		case ConstraintCategoryFK:
			conflict = referenceMissing(category.EntityName, c.Category.ID)
		default:
			conflict = apperror.NewCarConflict("Car references are inconsistent.")
		}
		return conflict.WithCause(err)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", EntityName)
}

func (s *Service) runAfter(ctx context.Context, event domain.HookEvent, c *Car) {
	if err := s.hooks.Run(ctx, event, c); err != nil {
		logger.Warn(ctx, "after hook failed",
			"entity", EntityName,
			"event", string(event),
			"id", c.ID,
			"error", err,
		)
	}
}

func carModelBound(carModelID id.ID) *apperror.AppError {
	return apperror.NewCarConflict(fmt.Sprintf("Car with car model Id %d already exists!", carModelID)).
		WithDetail("carModelId", carModelID)
}

func referenceMissing(name string, refID id.ID) *apperror.AppError {
	return apperror.NewCarConflict(fmt.Sprintf("%s with Id %d not found.", name, refID)).
		WithDetail("entity", name).
		WithDetail("id", refID)
}

func normalizeGetErr(err error, name string, entityID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(name, entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", name).WithDetail("id", entityID)
}
