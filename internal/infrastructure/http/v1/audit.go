package v1

import (
	"carrest/internal/domain/audit"
	"carrest/internal/infrastructure/http/v1/dto"
)

// AttachAudit records every committed write of services in recorder.
// Snapshots use the same JSON shape as the API responses, and cars removed
// by a catalog delete get their own delete entries.
func AttachAudit(recorder *audit.Recorder, services Services) {
	audit.AttachCascade(recorder, services.Manufacturers.Hooks(), audit.EntityCars,
		services.Cars.DependentsOfManufacturer, dto.FromCar)
	audit.AttachCascade(recorder, services.Categories.Hooks(), audit.EntityCars,
		services.Cars.DependentsOfCategory, dto.FromCar)
	audit.AttachCascade(recorder, services.CarModels.Hooks(), audit.EntityCars,
		services.Cars.DependentsOfCarModel, dto.FromCar)

	audit.Attach(recorder, services.Manufacturers.Hooks(), audit.EntityManufacturers, dto.FromManufacturer)
	audit.Attach(recorder, services.Categories.Hooks(), audit.EntityCategories, dto.FromCategory)
	audit.Attach(recorder, services.CarModels.Hooks(), audit.EntityCarModels, dto.FromCarModel)
	audit.Attach(recorder, services.Cars.Hooks(), audit.EntityCars, dto.FromCar)
}
