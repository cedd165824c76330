// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"carrest/internal/core/apperror"
	"carrest/internal/core/entity"
	"carrest/internal/core/id"
	"carrest/internal/core/tx"
	"carrest/pkg/logger"
)

// CatalogService provides business logic for name-unique catalog entities:
// uniqueness-checked create, load-merge-update and existence-checked delete.
type CatalogService[T entity.Named] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName is the display name used in error messages
	entityName  string
	sortFields  SortFields
	defaultSort string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Named] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string

	// SortFields is the allow-list of API sort fields
	SortFields  SortFields
	DefaultSort string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Named](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:        cfg.Repo,
		txManager:   cfg.TxManager,
		hooks:       NewHookRegistry[T](),
		entityName:  cfg.EntityName,
		sortFields:  cfg.SortFields,
		defaultSort: cfg.DefaultSort,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the display name of the managed entity.
func (s *CatalogService[T]) EntityName() string {
	return s.entityName
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID id.ID) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", entityID)
}

// normalizeWriteErr translates storage constraint failures raised by a write.
// The unique constraint is the real guard against concurrent duplicates.
func (s *CatalogService[T]) normalizeWriteErr(err error, name string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUniqueViolation) {
		return apperror.NewDuplicateName(s.entityName, name).WithCause(err)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName)
}

func (s *CatalogService[T]) checkNameAvailable(ctx context.Context, name string) error {
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("check %s name: %w", s.entityName, err))
	}
	if exists {
		return apperror.NewDuplicateName(s.entityName, name)
	}
	return nil
}

// Create validates and inserts a new entity. The entity receives its ID.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	// 1. Absent payload
	if IsNil(entity) {
		return apperror.NewNullInput(s.entityName)
	}

	// 2. Validate entity invariants
	if err := entity.Validate(ctx); err != nil {
		return validationErr(s.entityName, err)
	}

	// 3. Optimistic uniqueness pre-check
	if err := s.checkNameAvailable(ctx, entity.GetName()); err != nil {
		return err
	}

	// 4. Run before-create hooks
	if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
		return err
	}

	// 5. Create in transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return s.normalizeWriteErr(err, entity.GetName())
	}

	// 6. Run after-create hooks (outside transaction)
	s.runAfter(ctx, AfterCreate, entity)

	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID)
	}
	return entity, nil
}

// Update loads the stored entity, merges the supplied fields and persists it.
// An empty name keeps the stored one.
func (s *CatalogService[T]) Update(ctx context.Context, input T) (T, error) {
	var zero T

	if IsNil(input) {
		return zero, apperror.NewNullInput(s.entityName)
	}
	if id.IsNil(input.GetID()) {
		return zero, apperror.NewValidation(fmt.Sprintf("%s Id cannot be null!", s.entityName))
	}

	// 1. Load current state
	existing, err := s.repo.GetByID(ctx, input.GetID())
	if err != nil {
		return zero, s.normalizeGetErr(err, input.GetID())
	}

	// 2. Merge supplied fields
	name := input.GetName()
	if name != "" && name != existing.GetName() {
		if err := s.checkNameAvailable(ctx, name); err != nil {
			return zero, err
		}
		existing.SetName(name)
	}

	if err := existing.Validate(ctx); err != nil {
		return zero, validationErr(s.entityName, err)
	}

	// 3. Run before-update hooks
	if err := s.hooks.Run(ctx, BeforeUpdate, existing); err != nil {
		return zero, err
	}

	// 4. Update in transaction
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, existing); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return zero, apperror.NewNotFound(s.entityName, existing.GetID())
		}
		return zero, s.normalizeWriteErr(err, existing.GetName())
	}

	// 5. Run after-update hooks
	s.runAfter(ctx, AfterUpdate, existing)

	return existing, nil
}

// Delete physically removes the entity. Cars referencing it are removed by cascade.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	// 1. Get entity first (existence check and hooks)
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID)
	}

	// 2. Run before-delete hooks
	if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
		return err
	}

	// 3. Delete in transaction
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, entityID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return s.normalizeGetErr(err, entityID)
	}

	// 4. Run after-delete hooks
	s.runAfter(ctx, AfterDelete, entity)

	return nil
}

// List returns one sorted page.
func (s *CatalogService[T]) List(ctx context.Context, req PageRequest) (Page[T], error) {
	filter, err := req.Resolve(s.sortFields, s.defaultSort)
	if err != nil {
		return Page[T]{}, err
	}

	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return Page[T]{}, apperror.NewInternal(fmt.Errorf("list %s: %w", s.entityName, err))
	}

	return NewPage(result, req), nil
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}

// FindByName retrieves entity by its unique name.
func (s *CatalogService[T]) FindByName(ctx context.Context, name string) (T, error) {
	entity, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return entity, apperror.NewNotFound(s.entityName, name)
		}
		return entity, s.normalizeGetErr(err, 0)
	}
	return entity, nil
}

// runAfter executes after-hooks. The write is already committed, so failures are only logged.
func (s *CatalogService[T]) runAfter(ctx context.Context, event HookEvent, entity T) {
	if err := s.hooks.Run(ctx, event, entity); err != nil {
		logger.Warn(ctx, "after hook failed",
			"entity", s.entityName,
			"event", string(event),
			"id", entity.GetID(),
			"error", err,
		)
	}
}

func validationErr(entityName string, err error) error {
	return entity.ValidationError(entityName, err)
}

// IsNil reports whether v is nil or a nil pointer stored in an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
