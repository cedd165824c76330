package entity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"carrest/internal/core/apperror"
	"carrest/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identifiable is implemented by entities with a storage-assigned key.
type Identifiable interface {
	GetID() id.ID
	SetID(id.ID)
}

// BaseEntity contains the surrogate key shared by all entities.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`
}

// GetID returns the entity key.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// SetID assigns the key after insert.
func (b *BaseEntity) SetID(v id.ID) {
	b.ID = v
}

// ValidationError converts ozzo-validation field errors into a single AppError.
// Field errors are exposed in details under "fields".
func ValidationError(entity string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewValidation(fmt.Sprintf("%s is invalid: %v", entity, err))
	}

	keys := make([]string, 0, len(fieldErrs))
	fields := make(map[string]string, len(fieldErrs))
	for k, v := range fieldErrs {
		if v == nil {
			continue
		}
		keys = append(keys, k)
		fields[k] = v.Error()
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fields[k])
	}

	return apperror.NewValidation(fmt.Sprintf("%s is invalid: %s.", entity, strings.Join(parts, "; "))).
		WithDetail("fields", fields)
}
