// Package catalog_repo provides PostgreSQL implementations for the catalog
// and car repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"carrest/internal/core/apperror"
	"carrest/internal/core/entity"
	"carrest/internal/core/id"
	"carrest/internal/domain"
	"carrest/internal/infrastructure/storage/postgres"
)

// TableSpec names the physical table and columns behind a catalog.
// Entities use the logical columns "id" and "name" in their db tags.
type TableSpec struct {
	Table      string
	IDColumn   string
	NameColumn string
}

func (s TableSpec) physical(logical string) string {
	switch logical {
	case "id":
		return s.IDColumn
	case "name":
		return s.NameColumn
	}
	return logical
}

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T entity.Named] struct {
	txManager  *postgres.TxManager
	spec       TableSpec
	columns    []string
	selectCols []string
	newFn      func() T
}

// NewBaseCatalogRepo creates a new base catalog repository.
// columns are the logical db tags of T, see postgres.ExtractDBColumns.
func NewBaseCatalogRepo[T entity.Named](
	txManager *postgres.TxManager,
	spec TableSpec,
	columns []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	selectCols := make([]string, len(columns))
	for i, col := range columns {
		selectCols[i] = fmt.Sprintf("%s AS %s", spec.physical(col), col)
	}
	return &BaseCatalogRepo[T]{
		txManager:  txManager,
		spec:       spec,
		columns:    columns,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// writeMap converts entity fields to physical columns, excluding the key.
func (r *BaseCatalogRepo[T]) writeMap(e T) (map[string]any, error) {
	data := postgres.StructToMap(e)
	if len(data) == 0 {
		return nil, fmt.Errorf("no db tags found in entity")
	}

	out := make(map[string]any, len(r.columns))
	for _, col := range r.columns {
		if col == "id" {
			continue
		}
		if val, ok := data[col]; ok {
			out[r.spec.physical(col)] = val
		}
	}
	return out, nil
}

// insertQuery builds INSERT ... RETURNING id.
func (r *BaseCatalogRepo[T]) insertQuery(e T) (squirrel.InsertBuilder, error) {
	data, err := r.writeMap(e)
	if err != nil {
		return squirrel.InsertBuilder{}, err
	}
	return r.Builder().
		Insert(r.spec.Table).
		SetMap(data).
		Suffix("RETURNING " + r.spec.IDColumn), nil
}

// Create inserts a new entity and assigns the generated ID.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e T) error {
	q, err := r.insertQuery(e)
	if err != nil {
		return err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var newID id.ID
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return fmt.Errorf("insert %s: %w", r.spec.Table, postgres.MapError(err))
	}
	e.SetID(newID)

	return nil
}

// Update rewrites all non-key columns.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, e T) error {
	data, err := r.writeMap(e)
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().
		Update(r.spec.Table).
		SetMap(data).
		Where(squirrel.Eq{r.spec.IDColumn: e.GetID()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.spec.Table, postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.spec.Table, e.GetID())
	}

	return nil
}

// baseSelect creates a SELECT builder with logical column aliases.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.spec.Table)
}

// FindOne executes a SELECT query and returns a single entity.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder, key any) (T, error) {
	e := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return e, apperror.NewNotFound(r.spec.Table, key)
		}
		return e, fmt.Errorf("get %s: %w", r.spec.Table, err)
	}

	return e, nil
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{r.spec.IDColumn: entityID}).Limit(1), entityID)
}

// FindByName retrieves entity by its unique name.
func (r *BaseCatalogRepo[T]) FindByName(ctx context.Context, name string) (T, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{r.spec.NameColumn: name}).Limit(1), name)
}

// listQueries builds the page query and its COUNT companion.
func (r *BaseCatalogRepo[T]) listQueries(filter domain.ListFilter) (squirrel.SelectBuilder, squirrel.SelectBuilder, error) {
	countQ := r.Builder().
		Select("COUNT(*)").
		From(r.spec.Table)

	orderBy, err := r.parseOrderBy(filter.OrderBy, filter.Descending)
	if err != nil {
		return squirrel.SelectBuilder{}, squirrel.SelectBuilder{}, err
	}

	q := r.baseSelect().OrderBy(orderBy...)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return q, countQ, nil
}

// List retrieves entities with sorting and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	var result domain.ListResult[T]

	q, countQ, err := r.listQueries(filter)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.spec.Table, err)
	}

	return result, nil
}

func (r *BaseCatalogRepo[T]) exists(ctx context.Context, where squirrel.Eq) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(r.spec.Table).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.spec.Table, err)
	}

	return true, nil
}

// Exists checks if entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return r.exists(ctx, squirrel.Eq{r.spec.IDColumn: entityID})
}

// ExistsByName checks if entity with given name exists.
func (r *BaseCatalogRepo[T]) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{r.spec.NameColumn: name})
}

// Delete performs physical removal. Referencing cars go with ON DELETE CASCADE.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.spec.Table).
		Where(squirrel.Eq{r.spec.IDColumn: entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.spec.Table, postgres.MapError(err))
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.spec.Table, entityID)
	}

	return nil
}

// parseOrderBy resolves a logical sort key against the column whitelist.
// The key is appended as a tie-breaker so pages are stable.
func (r *BaseCatalogRepo[T]) parseOrderBy(key string, desc bool) ([]string, error) {
	if key == "" {
		key = "id"
	}

	allowed := false
	for _, col := range r.columns {
		if col == key {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("invalid order by column: %s", key)
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	order := []string{r.spec.physical(key) + " " + dir}
	if key != "id" {
		order = append(order, r.spec.IDColumn+" ASC")
	}
	return order, nil
}
