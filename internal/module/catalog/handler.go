package catalog

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/travelmarket/internal/domain"
	"github.com/simp-lee/travelmarket/internal/pkg"
)

// CatalogHandler handles REST API requests for the package catalog.
type CatalogHandler struct {
	svc    domain.CatalogService
	logger *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler with the given service.
func NewCatalogHandler(svc domain.CatalogService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/packages. Component errors propagate here and are
// translated into the response envelope; unexpected store failures are logged
// with the raw query string so they can be reproduced.
func (h *CatalogHandler) List(c *gin.Context) {
	q := parsePackageQuery(c)

	result, err := h.svc.ListPackages(c.Request.Context(), q)
	if err != nil {
		if domain.IsInternal(err) {
			h.logger.ErrorContext(c.Request.Context(), "list packages",
				slog.String("query", c.Request.URL.RawQuery),
				slog.Any("error", err),
			)
		}
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result.Items, result.Pagination)
}

// Create handles POST /api/v1/packages.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req CreatePackageRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	created, err := h.svc.CreatePackage(c.Request.Context(), req.Input())
	if err != nil {
		if domain.IsInternal(err) {
			h.logger.ErrorContext(c.Request.Context(), "create package",
				slog.Uint64("travel_id", uint64(req.TravelID)),
				slog.Any("error", err),
			)
		}
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, created)
}
