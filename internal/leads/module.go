// Package leads provides the lead assignment and disposition domain module.
package leads

import (
	"callcenter_backend/internal/events"
	apphttp "callcenter_backend/internal/http"
	"callcenter_backend/internal/leads/domain"
	"callcenter_backend/internal/leads/handler"
	"callcenter_backend/internal/leads/repository"
	"callcenter_backend/internal/leads/service"
	"callcenter_backend/platform/config"
	"callcenter_backend/platform/logger"
	validatorpkg "callcenter_backend/platform/validator"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	Service *service.Service
}

// NewModule creates a new leads module with all dependencies wired. The agent
// gate arrives later via Service.SetGate; the agents module needs this
// module's repository first. A nil sched keeps batch recycles inline.
func NewModule(pool *pgxpool.Pool, val *validatorpkg.Validator, bus events.Bus, log *logger.Logger, cfg config.CallCenterConfig, sched handler.RecycleScheduler) *Module {
	registerDispositionTag(val)

	repo := repository.New(pool, cfg.GetMaxAttempts())
	svc := service.New(repo, nil, bus, log, service.Config{
		ClaimRetries:   cfg.GetClaimRetries(),
		StaleThreshold: cfg.GetStaleLeadThreshold(),
		ReportingZone:  cfg.GetAgentTimezone(),
	})
	h := handler.New(svc, val, cfg.GetDefaultPhoneRegion(), sched)

	return &Module{
		handler: h,
		repo:    repo,
		Service: svc,
	}
}

// Repository exposes the lead store for cross-module wiring (the agents
// module releases held leads through it).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts the agent routes on the protected group and the
// maintenance routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAgentRoutes(ctx.Protected)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// registerDispositionTag binds the `disposition` validation tag to the
// closed outcome-code list.
func registerDispositionTag(val *validatorpkg.Validator) {
	_ = val.RegisterValidation("disposition", func(fl validator.FieldLevel) bool {
		return domain.Disposition(fl.Field().String()).IsValid()
	})
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
