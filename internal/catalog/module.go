// Package catalog provides the property catalog bounded context module.
package catalog

import (
	"context"

	"estate_portal_backend/internal/catalog/handler"
	"estate_portal_backend/internal/catalog/ports"
	"estate_portal_backend/internal/catalog/repository"
	"estate_portal_backend/internal/catalog/service"
	"estate_portal_backend/internal/events"
	apphttp "estate_portal_backend/internal/http"
	"estate_portal_backend/platform/config"
	"estate_portal_backend/platform/httpkit"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module. rdb may be nil, in
// which case query results are not cached.
func NewModule(pool *pgxpool.Pool, rdb redis.UniversalClient, bus events.Bus, val *validator.Validator, cfg config.CatalogConfig, log *logger.Logger) *Module {
	return newModule(repository.New(pool), rdb, bus, val, cfg, log)
}

func newModule(repo repository.Repository, rdb redis.UniversalClient, bus events.Bus, val *validator.Validator, cfg config.CatalogConfig, log *logger.Logger) *Module {
	var cache service.ResultCache
	if qc := repository.NewQueryCache(rdb, cfg.GetCatalogCacheTTL()); qc != nil {
		cache = qc
	}

	svc := service.New(repo, cache, bus, cfg.GetCatalogQueryMode(), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetFavoriteReader injects the favorite ledger used to flag saved listings.
func (m *Module) SetFavoriteReader(reader ports.FavoriteReader) {
	m.service.SetFavoriteReader(reader)
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/properties", m.handler.Search)
	ctx.V1.GET("/properties/:id", m.handler.Get)

	staff := ctx.Protected.Group("/properties", httpkit.RequireRole(httpkit.RoleAgent, httpkit.RoleAdmin))
	staff.POST("", m.handler.Create)
	staff.PUT("/:id", m.handler.Update)
	staff.DELETE("/:id", m.handler.Delete)
}

// RegisterHandlers subscribes to catalog events raised outside this module,
// such as bulk imports.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.PropertyChanged{}.EventName(), m)
}

// Handle drops cached query results whenever the catalog changes.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch event.(type) {
	case events.PropertyChanged:
		return m.service.InvalidateCache(ctx)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
