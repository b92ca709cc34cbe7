// Package appointments provides the appointments domain module.
package appointments

import (
	"time"

	"callcenter_backend/internal/appointments/handler"
	"callcenter_backend/internal/appointments/repository"
	"callcenter_backend/internal/appointments/service"
	apphttp "callcenter_backend/internal/http"
	"callcenter_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the appointments domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new appointments module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, zone *time.Location) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, zone)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes mounts the read routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAgentRoutes(ctx.Protected)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
