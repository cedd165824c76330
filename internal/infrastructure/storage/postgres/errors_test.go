package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"carrest/internal/domain"
)

func TestMapError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "uq_manufacturers_name"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_cars_category"}
	other := &pgconn.PgError{Code: "42P01"}

	tests := []struct {
		name           string
		in             error
		wantKind       error
		wantConstraint string
	}{
		{name: "unique", in: unique, wantKind: domain.ErrUniqueViolation, wantConstraint: "uq_manufacturers_name"},
		{name: "wrapped unique", in: fmt.Errorf("insert: %w", unique), wantKind: domain.ErrUniqueViolation, wantConstraint: "uq_manufacturers_name"},
		{name: "foreign key", in: fk, wantKind: domain.ErrForeignKeyViolation, wantConstraint: "fk_cars_category"},
		{name: "other pg error", in: other},
		{name: "plain", in: errors.New("conn reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in)
			assert.ErrorIs(t, got, tt.in)
			if tt.wantKind == nil {
				assert.False(t, errors.Is(got, domain.ErrUniqueViolation))
				assert.False(t, errors.Is(got, domain.ErrForeignKeyViolation))
				return
			}
			assert.ErrorIs(t, got, tt.wantKind)
			assert.Equal(t, tt.wantConstraint, domain.ConstraintName(got))
		})
	}

	assert.NoError(t, MapError(nil))
}
