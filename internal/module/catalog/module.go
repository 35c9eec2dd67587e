package catalog

import "github.com/gin-gonic/gin"

// CatalogModule implements the app.Module interface for the package catalog.
type CatalogModule struct {
	handler *CatalogHandler
}

// NewModule creates a new CatalogModule with the given handler.
// Panics if h is nil.
func NewModule(h *CatalogHandler) *CatalogModule {
	if h == nil {
		panic("catalog.NewModule: handler must not be nil")
	}
	return &CatalogModule{handler: h}
}

// RegisterRoutes registers catalog API routes.
func (m *CatalogModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/packages", m.handler.List)
	api.POST("/packages", m.handler.Create)
}
