package handler

import (
	"context"
	"net/http"
	"time"

	"callcenter_backend/internal/leads/domain"
	"callcenter_backend/internal/leads/service"
	"callcenter_backend/internal/leads/transport"
	"callcenter_backend/platform/httpkit"
	"callcenter_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// RecycleScheduler hands a batch recycle to the background worker. Optional:
// without one, recycles always run inline.
type RecycleScheduler interface {
	EnqueueRecycle(ctx context.Context, batchID string) error
}

// Handler handles HTTP requests for lead assignment and dispositions.
type Handler struct {
	svc         *service.Service
	val         *validator.Validator
	phoneRegion string
	sched       RecycleScheduler
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator, phoneRegion string, sched RecycleScheduler) *Handler {
	return &Handler{svc: svc, val: val, phoneRegion: phoneRegion, sched: sched}
}

// RegisterAgentRoutes mounts the agent-facing routes. Paths match the dialer
// frontend contract verbatim.
func (h *Handler) RegisterAgentRoutes(rg *gin.RouterGroup) {
	rg.POST("/agent/siguiente", h.Siguiente)
	rg.POST("/agente/guardar-gestion", h.GuardarGestion)
	rg.GET("/agente/resumen-hoy", h.ResumenHoy)
}

// RegisterAdminRoutes mounts the admin maintenance routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads/limpiar-colgados", h.LimpiarColgados)
	rg.POST("/registros/:leadId/liberar", h.Liberar)
	rg.POST("/bases/:baseId/reciclar", h.Reciclar)
}

// Siguiente handles POST /api/v1/agent/siguiente: claims the next eligible
// lead for the calling agent.
func (h *Handler) Siguiente(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	lead, err := h.svc.NextLead(c.Request.Context(), identity.AgentID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead, h.phoneRegion))
}

// GuardarGestion handles POST /api/v1/agente/guardar-gestion: records the
// outcome of a contact attempt.
func (h *Handler) GuardarGestion(c *gin.Context) {
	var req transport.GuardarGestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	scheduledAt, err := req.ParseFechaCita(h.svc.ReportingZone())
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid fecha_cita", err.Error())
		return
	}

	result, err := h.svc.RecordOutcome(c.Request.Context(), identity.AgentID(), service.OutcomeRequest{
		LeadID:      req.RegistroID,
		Outcome:     domain.Disposition(req.EstadoFinal),
		ScheduledAt: scheduledAt,
		Location:    req.AgenciaCita,
		Comment:     req.Comentarios,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.GestionResponse{
		RegistroID:    req.RegistroID,
		EstadoFinal:   req.EstadoFinal,
		CitaCreada:    result.AppointmentCreated,
		CitaID:        result.AppointmentID,
		ResumenDelDia: transport.ToResumenResponse(result.Summary),
	})
}

// ResumenHoy handles GET /api/v1/agente/resumen-hoy.
func (h *Handler) ResumenHoy(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	summary, err := h.svc.DailySummary(c.Request.Context(), identity.AgentID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToResumenResponse(summary))
}

// LimpiarColgados handles POST /api/v1/admin/leads/limpiar-colgados: manual
// trigger of the stale-lead sweep. An empty body uses the configured
// threshold.
func (h *Handler) LimpiarColgados(c *gin.Context) {
	var req transport.SweepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	var threshold time.Duration
	if req.UmbralMinutos != nil {
		threshold = time.Duration(*req.UmbralMinutos) * time.Minute
	}

	released, err := h.svc.SweepStale(c.Request.Context(), threshold)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SweepResponse{Liberados: released, Total: len(released)})
}

// Liberar handles POST /api/v1/admin/registros/:leadId/liberar: forces an
// in-progress lead back into the pool regardless of who holds it.
func (h *Handler) Liberar(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	released, err := h.svc.ReleaseLead(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	if !released {
		httpkit.Error(c, http.StatusConflict, "lead is not in progress", nil)
		return
	}

	httpkit.OK(c, transport.LiberarResponse{RegistroID: leadID, Liberado: true})
}

// Reciclar handles POST /api/v1/admin/bases/:baseId/reciclar. With
// ?asincrono=true and a scheduler configured, the recycle is handed to the
// background worker; large bases can take a while to reset inline.
func (h *Handler) Reciclar(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("baseId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid base id", nil)
		return
	}

	if c.Query("asincrono") == "true" && h.sched != nil {
		if err := h.sched.EnqueueRecycle(c.Request.Context(), batchID.String()); err != nil {
			httpkit.Error(c, http.StatusServiceUnavailable, "failed to enqueue recycle", nil)
			return
		}
		httpkit.Accepted(c, transport.RecycleQueuedResponse{BaseID: batchID, Encolado: true})
		return
	}

	affected, err := h.svc.RecycleBatch(c.Request.Context(), batchID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.RecycleResponse{BaseID: batchID, Reciclados: affected})
}
