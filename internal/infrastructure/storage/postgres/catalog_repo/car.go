package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"carrest/internal/core/apperror"
	"carrest/internal/core/id"
	"carrest/internal/domain"
	"carrest/internal/domain/car"
	"carrest/internal/infrastructure/storage/postgres"
)

const carTable = "cars"

// carSelectCols aliases joined reference columns into the nested db tags of car.Car.
var carSelectCols = []string{
	"c.car_id AS id",
	"c.manufacture_year AS manufacture_year",
	`m.manufacturer_id AS "manufacturer.id"`,
	`m.manufacturer_name AS "manufacturer.name"`,
	`cm.car_model_id AS "car_model.id"`,
	`cm.car_model_name AS "car_model.name"`,
	`cat.category_id AS "category.id"`,
	`cat.category_name AS "category.name"`,
}

// carOrderColumns maps car sort keys to physical columns.
// Reference keys sort by the referenced ID.
var carOrderColumns = map[string]string{
	car.SortKeyID:           "c.car_id",
	car.SortKeyYear:         "c.manufacture_year",
	car.SortKeyManufacturer: "c.manufacturer_id",
	car.SortKeyCarModel:     "c.car_model_id",
	car.SortKeyCategory:     "c.category_id",
}

var _ car.Repository = (*CarRepo)(nil)

// CarRepo implements car.Repository.
type CarRepo struct {
	txManager *postgres.TxManager
}

// NewCarRepo creates a new car repository.
func NewCarRepo(txManager *postgres.TxManager) *CarRepo {
	return &CarRepo{txManager: txManager}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *CarRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *CarRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *CarRepo) writeMap(c *car.Car) map[string]any {
	return map[string]any{
		"manufacture_year": c.ManufactureYear,
		"manufacturer_id":  c.Manufacturer.ID,
		"car_model_id":     c.CarModel.ID,
		"category_id":      c.Category.ID,
	}
}

// Create inserts a new car and assigns the generated ID.
func (r *CarRepo) Create(ctx context.Context, c *car.Car) error {
	sql, args, err := r.Builder().
		Insert(carTable).
		SetMap(r.writeMap(c)).
		Suffix("RETURNING car_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var newID id.ID
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return fmt.Errorf("insert car: %w", postgres.MapError(err))
	}
	c.ID = newID

	return nil
}

// Update rewrites year and reference columns.
func (r *CarRepo) Update(ctx context.Context, c *car.Car) error {
	sql, args, err := r.Builder().
		Update(carTable).
		SetMap(r.writeMap(c)).
		Where(squirrel.Eq{"car_id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update car: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(car.EntityName, c.ID)
	}

	return nil
}

// Delete removes a car.
func (r *CarRepo) Delete(ctx context.Context, carID id.ID) error {
	sql, args, err := r.Builder().
		Delete(carTable).
		Where(squirrel.Eq{"car_id": carID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete car: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(car.EntityName, carID)
	}

	return nil
}

// baseSelect joins the three reference tables.
func (r *CarRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(carSelectCols...).
		From(carTable + " c").
		Join("manufacturers m ON m.manufacturer_id = c.manufacturer_id").
		Join("car_models cm ON cm.car_model_id = c.car_model_id").
		Join("categories cat ON cat.category_id = c.category_id")
}

func (r *CarRepo) findOne(ctx context.Context, q squirrel.SelectBuilder, notFound error) (*car.Car, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c car.Car
	if err := pgxscan.Get(ctx, r.querier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, notFound
		}
		return nil, fmt.Errorf("get car: %w", err)
	}

	return &c, nil
}

// GetByID retrieves a car with its references.
func (r *CarRepo) GetByID(ctx context.Context, carID id.ID) (*car.Car, error) {
	return r.findOne(ctx,
		r.baseSelect().Where(squirrel.Eq{"c.car_id": carID}),
		apperror.NewNotFound(car.EntityName, carID))
}

// FindByCarModel returns the car bound to a car model.
func (r *CarRepo) FindByCarModel(ctx context.Context, carModelID id.ID) (*car.Car, error) {
	return r.findOne(ctx,
		r.baseSelect().Where(squirrel.Eq{"c.car_model_id": carModelID}),
		apperror.NewNotFound(car.EntityName, carModelID))
}

// ExistsByCarModel checks whether a car model is already bound.
func (r *CarRepo) ExistsByCarModel(ctx context.Context, carModelID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(carTable).
		Where(squirrel.Eq{"car_model_id": carModelID}).
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
		return false, fmt.Errorf("exists by car model: %w", err)
	}

	return true, nil
}

// listQueries builds the page query and its COUNT companion.
func (r *CarRepo) listQueries(filter car.Filter) (squirrel.SelectBuilder, squirrel.SelectBuilder, error) {
	where := squirrel.Eq{}
	if filter.ManufacturerID != nil {
		where["c.manufacturer_id"] = *filter.ManufacturerID
	}
	if filter.CategoryID != nil {
		where["c.category_id"] = *filter.CategoryID
	}

	countQ := r.Builder().Select("COUNT(*)").From(carTable + " c")
	q := r.baseSelect()
	if len(where) > 0 {
		countQ = countQ.Where(where)
		q = q.Where(where)
	}

	orderBy, err := parseCarOrderBy(filter.OrderBy, filter.Descending)
	if err != nil {
		return squirrel.SelectBuilder{}, squirrel.SelectBuilder{}, err
	}
	q = q.OrderBy(orderBy...)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return q, countQ, nil
}

// List retrieves cars with optional reference filters, sorting and pagination.
func (r *CarRepo) List(ctx context.Context, filter car.Filter) (domain.ListResult[*car.Car], error) {
	var result domain.ListResult[*car.Car]

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
		return result, fmt.Errorf("list cars: %w", err)
	}

	return result, nil
}

func parseCarOrderBy(key string, desc bool) ([]string, error) {
	if key == "" {
		key = car.SortKeyID
	}

	col, ok := carOrderColumns[key]
	if !ok {
		return nil, fmt.Errorf("invalid order by column: %s", key)
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	order := []string{col + " " + dir}
	if key != car.SortKeyID {
		order = append(order, "c.car_id ASC")
	}
	return order, nil
}
