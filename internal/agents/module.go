// Package agents provides the agent operational state domain module.
package agents

import (
	"callcenter_backend/internal/agents/domain"
	"callcenter_backend/internal/agents/handler"
	"callcenter_backend/internal/agents/presence"
	"callcenter_backend/internal/agents/repository"
	"callcenter_backend/internal/agents/service"
	"callcenter_backend/internal/events"
	apphttp "callcenter_backend/internal/http"
	"callcenter_backend/platform/logger"
	validatorpkg "callcenter_backend/platform/validator"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the agents domain module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new agents module with all dependencies wired. The
// presence store may be nil when Redis is not configured.
func NewModule(pool *pgxpool.Pool, val *validatorpkg.Validator, bus events.Bus, log *logger.Logger, releaser service.LeadReleaser, pres *presence.Store) *Module {
	registerAgentStateTag(val)

	repo := repository.New(pool)

	var presenceStore service.Presence
	if pres != nil {
		presenceStore = pres
	}
	svc := service.New(repo, releaser, presenceStore, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "agents"
}

// RegisterRoutes mounts the agent routes on the protected group and the
// unblock route on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAgentRoutes(ctx.Protected)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// registerAgentStateTag binds the `agentstate` validation tag to the fixed
// operational-state list.
func registerAgentStateTag(val *validatorpkg.Validator) {
	_ = val.RegisterValidation("agentstate", func(fl validator.FieldLevel) bool {
		return domain.OperationalState(fl.Field().String()).IsValid()
	})
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
