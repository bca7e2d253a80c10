// Package favorites provides the favorite ledger bounded context module.
package favorites

import (
	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/favorites/handler"
	"estate_portal_backend/internal/favorites/ports"
	"estate_portal_backend/internal/favorites/repository"
	"estate_portal_backend/internal/favorites/service"
	apphttp "estate_portal_backend/internal/http"
	"estate_portal_backend/platform/config"
	"estate_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the favorites bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the favorites module. rdb may be nil, in which case
// membership is always read from the database. The property catalog is
// wired later with SetCatalog.
func NewModule(pool *pgxpool.Pool, rdb redis.UniversalClient, bus events.Bus, cfg config.FavoritesConfig, log *logger.Logger) *Module {
	var cache service.SetCache
	if sc := repository.NewSetCache(rdb, cfg.GetFavoritesCacheTTL()); sc != nil {
		cache = sc
	}

	svc := service.New(repository.New(pool), cache, nil, bus, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "favorites"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetCatalog injects the property catalog used to validate and render entries.
func (m *Module) SetCatalog(catalog ports.PropertyCatalog) {
	m.service.SetCatalog(catalog)
}

// RegisterRoutes mounts favorites routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/favorites")
	g.GET("", m.handler.List)
	g.PUT("/:propertyId", m.handler.Add)
	g.DELETE("/:propertyId", m.handler.Remove)
	g.POST("/:propertyId/toggle", m.handler.Toggle)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
