// Package v1 provides the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler defines the interface for resource handlers.
// Catalog handlers and the car handler implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers the standard CRUD routes of a resource.
// Reads are public; writes go through auth.
//
// Usage:
//
//	repo := catalog_repo.NewCategoryRepo(txManager)
//	service := category.NewService(repo, txManager)
//	handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[...]{...})
//	RegisterCatalogRoutes(router.Group("/categories"), handler, middleware.Auth(validator))
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, auth gin.HandlerFunc) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.POST("", auth, handler.Create)
	group.PUT("", auth, handler.Update)
	group.DELETE("/:id", auth, handler.Delete)
}
