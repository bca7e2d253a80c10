// Package tours provides the tour scheduling bounded context module.
package tours

import (
	"estate_portal_backend/internal/events"
	apphttp "estate_portal_backend/internal/http"
	"estate_portal_backend/internal/scheduler"
	"estate_portal_backend/internal/tours/domain"
	"estate_portal_backend/internal/tours/handler"
	"estate_portal_backend/internal/tours/ports"
	"estate_portal_backend/internal/tours/repository"
	"estate_portal_backend/internal/tours/service"
	"estate_portal_backend/platform/config"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tours bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the tours module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, cfg config.TourConfig, log *logger.Logger) *Module {
	return newModule(repository.New(pool), bus, val, cfg, log)
}

func newModule(repo repository.Repository, bus events.Bus, val *validator.Validator, cfg config.TourConfig, log *logger.Logger) *Module {
	svc := service.New(repo, bus, cfg.GetTourReminderLeadTime(), log)
	if cfg.GetTourRejectPastDates() {
		svc.SetDateValidator(domain.RejectPastDates)
	}
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tours"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetPropertyReader injects the catalog lookup.
func (m *Module) SetPropertyReader(properties ports.PropertyAgentReader) {
	m.service.SetPropertyReader(properties)
}

// SetLeadReader injects the lead lookup.
func (m *Module) SetLeadReader(leads ports.LeadReader) {
	m.service.SetLeadReader(leads)
}

// SetReminderScheduler injects the delayed task queue.
func (m *Module) SetReminderScheduler(reminders scheduler.ReminderScheduler) {
	m.service.SetReminderScheduler(reminders)
}

// RegisterRoutes mounts tour routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/tours")
	g.POST("", m.handler.Create)
	g.GET("", m.handler.List)
	g.GET("/stats", m.handler.Stats)
	g.GET("/:id", m.handler.Get)
	g.PATCH("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
