package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrest/internal/core/id"
	"carrest/internal/domain"
	"carrest/internal/domain/car"
	"carrest/internal/domain/catalogs/manufacturer"
)

func TestBaseCatalogRepo_InsertQuery(t *testing.T) {
	repo := NewManufacturerRepo(nil)

	q, err := repo.insertQuery(manufacturer.NewManufacturer("Tesla"))
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO manufacturers (manufacturer_name) VALUES ($1) RETURNING manufacturer_id", sql)
	assert.Equal(t, []any{"Tesla"}, args)
}

func TestBaseCatalogRepo_SelectAliases(t *testing.T) {
	repo := NewManufacturerRepo(nil)

	sql, _, err := repo.baseSelect().ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT manufacturer_id AS id, manufacturer_name AS name FROM manufacturers", sql)
}

func TestBaseCatalogRepo_ListQueries(t *testing.T) {
	repo := NewCategoryRepo(nil)

	tests := []struct {
		name   string
		filter domain.ListFilter
		want   string
	}{
		{
			name:   "default order",
			filter: domain.ListFilter{Limit: 10},
			want:   "SELECT category_id AS id, category_name AS name FROM categories ORDER BY category_id ASC LIMIT 10",
		},
		{
			name:   "by name descending with offset",
			filter: domain.ListFilter{OrderBy: "name", Descending: true, Limit: 5, Offset: 10},
			want:   "SELECT category_id AS id, category_name AS name FROM categories ORDER BY category_name DESC, category_id ASC LIMIT 5 OFFSET 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, countQ, err := repo.listQueries(tt.filter)
			require.NoError(t, err)

			sql, _, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)

			countSQL, _, err := countQ.ToSql()
			require.NoError(t, err)
			assert.Equal(t, "SELECT COUNT(*) FROM categories", countSQL)
		})
	}
}

func TestBaseCatalogRepo_RejectsUnknownOrder(t *testing.T) {
	repo := NewCarModelRepo(nil)

	_, _, err := repo.listQueries(domain.ListFilter{OrderBy: "name; DROP TABLE car_models"})
	assert.Error(t, err)
}

func TestCarRepo_ListQueries(t *testing.T) {
	repo := NewCarRepo(nil)
	manufacturerID := id.ID(3)

	q, countQ, err := repo.listQueries(car.Filter{
		ListFilter:     domain.ListFilter{OrderBy: car.SortKeyManufacturer, Limit: 10, Offset: 20},
		ManufacturerID: &manufacturerID,
	})
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, `m.manufacturer_name AS "manufacturer.name"`)
	assert.Contains(t, sql, "JOIN car_models cm ON cm.car_model_id = c.car_model_id")
	assert.Contains(t, sql, "WHERE c.manufacturer_id = $1")
	assert.Contains(t, sql, "ORDER BY c.manufacturer_id ASC, c.car_id ASC LIMIT 10 OFFSET 20")
	assert.Equal(t, []any{manufacturerID}, args)

	countSQL, countArgs, err := countQ.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM cars c WHERE c.manufacturer_id = $1", countSQL)
	assert.Equal(t, []any{manufacturerID}, countArgs)
}

func TestParseCarOrderBy(t *testing.T) {
	order, err := parseCarOrderBy("", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.car_id DESC"}, order)

	order, err = parseCarOrderBy(car.SortKeyYear, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.manufacture_year ASC", "c.car_id ASC"}, order)

	_, err = parseCarOrderBy("color", false)
	assert.Error(t, err)
}
