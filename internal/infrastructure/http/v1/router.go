package v1

import (
	"github.com/gin-gonic/gin"

	"carrest/internal/core/tx"
	"carrest/internal/domain/car"
	"carrest/internal/domain/catalogs/carmodel"
	"carrest/internal/domain/catalogs/category"
	"carrest/internal/domain/catalogs/manufacturer"
	"carrest/internal/infrastructure/http/v1/dto"
	"carrest/internal/infrastructure/http/v1/handlers"
	"carrest/internal/infrastructure/http/v1/middleware"
	"carrest/pkg/logger"
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Manufacturers *manufacturer.Service
	Categories    *category.Service
	CarModels     *carmodel.Service
	Cars          *car.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation on mutating routes
	JWTValidator middleware.JWTValidator

	// Storage is pinged by the readiness probe
	Storage tx.Pinger

	Services Services

	// Audit enables GET /audit/:entityType/:id when set
	Audit handlers.AuditReader

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	// Recovery sits inside ErrorHandler so recovered panics are still rendered.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	router.NoRoute(middleware.NoRoute())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Storage)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	auth := middleware.Auth(cfg.JWTValidator)
	base := handlers.NewBaseHandler()

	registerCatalogRoutes(router, base, auth, cfg.Services)
	registerCarRoutes(router, base, auth, cfg.Services.Cars)

	if cfg.Audit != nil {
		auditHandler := handlers.NewAuditHandler(base, cfg.Audit)
		router.GET("/audit/:entityType/:id", auth, auditHandler.History)
	}

	return router
}

// registerCatalogRoutes registers manufacturer, category and car model endpoints.
func registerCatalogRoutes(router *gin.Engine, base *handlers.BaseHandler, auth gin.HandlerFunc, svc Services) {
	// --- MANUFACTURERS ---
	{
		handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*manufacturer.Manufacturer, dto.Manufacturer]{
			Service:  svc.Manufacturers,
			ToEntity: dto.Manufacturer.ToEntity,
			ToDTO:    dto.FromManufacturer,
		})
		RegisterCatalogRoutes(router.Group("/manufacturers"), handler, auth)
	}

	// --- CATEGORIES ---
	{
		handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*category.Category, dto.Category]{
			Service:  svc.Categories,
			ToEntity: dto.Category.ToEntity,
			ToDTO:    dto.FromCategory,
		})
		RegisterCatalogRoutes(router.Group("/categories"), handler, auth)
	}

	// --- CAR MODELS ---
	{
		handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*carmodel.CarModel, dto.CarModel]{
			Service:  svc.CarModels,
			ToEntity: dto.CarModel.ToEntity,
			ToDTO:    dto.FromCarModel,
		})
		RegisterCatalogRoutes(router.Group("/car-models"), handler, auth)
	}
}

// registerCarRoutes registers car endpoints and the catalog back-references.
func registerCarRoutes(router *gin.Engine, base *handlers.BaseHandler, auth gin.HandlerFunc, svc *car.Service) {
	handler := handlers.NewCarHandler(base, svc)
	RegisterCatalogRoutes(router.Group("/cars"), handler, auth)

	router.GET("/manufacturers/:id/cars", handler.ListByManufacturer)
	router.GET("/categories/:id/cars", handler.ListByCategory)
	router.GET("/car-models/:id/car", handler.GetByCarModel)
}
