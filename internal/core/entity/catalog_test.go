package entity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrest/internal/core/apperror"
)

func TestCatalogValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		wantErr bool
	}{
		{name: "valid", catalog: NewCatalog("Tesla")},
		{name: "empty name", catalog: NewCatalog(""), wantErr: true},
		{name: "too long", catalog: NewCatalog(strings.Repeat("a", MaxNameLength+1)), wantErr: true},
		{name: "max length", catalog: NewCatalog(strings.Repeat("a", MaxNameLength))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidationError_FieldDetails(t *testing.T) {
	c := NewCatalog("")
	err := ValidationError("Manufacturer", c.Validate(context.Background()))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "Manufacturer is invalid: name cannot be empty.", appErr.Message)

	fields, ok := appErr.Details["fields"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "cannot be empty", fields["name"])
}

func TestValidationError_PassThrough(t *testing.T) {
	assert.NoError(t, ValidationError("Car", nil))

	orig := apperror.NewValidation("already structured")
	assert.Same(t, orig, ValidationError("Car", orig))
}

func TestCatalogAccessors(t *testing.T) {
	c := NewCatalog("SUV")
	c.SetID(3)
	c.SetName("Sedan")
	assert.EqualValues(t, 3, c.GetID())
	assert.Equal(t, "Sedan", c.GetName())
}
