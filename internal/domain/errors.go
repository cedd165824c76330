package domain

import (
	"errors"
	"fmt"
)

// Storage-level sentinels. Providers wrap constraint failures into these so
// services can translate them without knowing the driver.
var (
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// ConstraintError reports which named constraint rejected a write.
type ConstraintError struct {
	// Kind is ErrUniqueViolation or ErrForeignKeyViolation
	Kind       error
	Constraint string
	Err        error
}

// NewConstraintError builds a ConstraintError for the named constraint.
func NewConstraintError(kind error, constraint string, cause error) *ConstraintError {
	return &ConstraintError{Kind: kind, Constraint: constraint, Err: cause}
}

func (e *ConstraintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v (%s): %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%v (%s)", e.Kind, e.Constraint)
}

// Is matches the constraint kind sentinel.
func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// ConstraintName extracts the violated constraint name from err, if any.
func ConstraintName(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}
