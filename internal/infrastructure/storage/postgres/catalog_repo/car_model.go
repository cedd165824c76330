package catalog_repo

import (
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/infrastructure/storage/postgres"
)

// CarModelTable describes the car_models table.
var CarModelTable = TableSpec{
	Table:      "car_models",
	IDColumn:   "car_model_id",
	NameColumn: "car_model_name",
}

var _ carmodel.Repository = (*CarModelRepo)(nil)

// CarModelRepo implements carmodel.Repository.
type CarModelRepo struct {
	*BaseCatalogRepo[*carmodel.CarModel]
}

// NewCarModelRepo creates a new car model repository.
func NewCarModelRepo(txManager *postgres.TxManager) *CarModelRepo {
	return &CarModelRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			CarModelTable,
			postgres.ExtractDBColumns[carmodel.CarModel](),
			func() *carmodel.CarModel { return &carmodel.CarModel{} },
		),
	}
}
