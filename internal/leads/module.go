// Package leads provides the lead lifecycle bounded context module.
package leads

import (
	"estate_portal_backend/internal/events"
	apphttp "estate_portal_backend/internal/http"
	"estate_portal_backend/internal/leads/domain"
	"estate_portal_backend/internal/leads/handler"
	"estate_portal_backend/internal/leads/ports"
	"estate_portal_backend/internal/leads/repository"
	"estate_portal_backend/internal/leads/service"
	"estate_portal_backend/platform/config"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module. Property and agent
// readers are wired later with SetPropertyReader and SetAgentDirectory.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, cfg config.LeadsConfig, log *logger.Logger) (*Module, error) {
	return newModule(repository.New(pool), bus, val, cfg, log)
}

func newModule(repo repository.Repository, bus events.Bus, val *validator.Validator, cfg config.LeadsConfig, log *logger.Logger) (*Module, error) {
	if err := val.RegisterOneOf("lead_source", sourceNames()); err != nil {
		return nil, err
	}
	if err := val.RegisterOneOf("lead_priority", priorityNames()); err != nil {
		return nil, err
	}

	svc := service.New(repo, bus, cfg.GetPhoneDefaultRegion(), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetPropertyReader injects the catalog lookup.
func (m *Module) SetPropertyReader(properties ports.PropertyReader) {
	m.service.SetPropertyReader(properties)
}

// SetAgentDirectory injects the agent contact lookup.
func (m *Module) SetAgentDirectory(agents ports.AgentDirectory) {
	m.service.SetAgentDirectory(agents)
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	inquiries := ctx.Public.Group("/inquiries")
	if ctx.InquiryLimiter != nil {
		inquiries.Use(ctx.InquiryLimiter.RateLimit())
	}
	inquiries.POST("", m.handler.Submit)

	g := ctx.Protected.Group("/leads")
	g.POST("", m.handler.Create)
	g.GET("", m.handler.List)
	g.GET("/mine", m.handler.Mine)
	g.GET("/statuses", m.handler.Statuses)
	g.GET("/:id", m.handler.Get)
	g.PATCH("/:id/status", m.handler.UpdateStatus)
	g.PATCH("/:id/priority", m.handler.UpdatePriority)
	g.POST("/:id/notes", m.handler.AddNote)
}

func sourceNames() []string {
	names := make([]string, len(domain.Sources))
	for i, s := range domain.Sources {
		names[i] = string(s)
	}
	return names
}

func priorityNames() []string {
	names := make([]string, len(domain.Priorities))
	for i, p := range domain.Priorities {
		names[i] = string(p)
	}
	return names
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
