package handler

import (
	"net/http"
	"time"

	"callcenter_backend/internal/appointments/repository"
	"callcenter_backend/internal/appointments/service"
	"callcenter_backend/internal/appointments/transport"
	"callcenter_backend/platform/httpkit"
	"callcenter_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterAgentRoutes mounts the agent-facing routes.
func (h *Handler) RegisterAgentRoutes(rg *gin.RouterGroup) {
	rg.GET("/agente/citas", h.MisCitas)
}

// RegisterAdminRoutes mounts the supervisor routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/citas", h.List)
	rg.GET("/citas/:id", h.Get)
	rg.PATCH("/citas/:id/status", h.UpdateStatus)
}

// MisCitas handles GET /api/v1/agente/citas?dia=2025-12-01. Defaults to today.
func (h *Handler) MisCitas(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	day, ok := parseDay(c)
	if !ok {
		return
	}

	items, err := h.svc.ListForAgent(c.Request.Context(), identity.AgentID(), day)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToAppointmentList(items))
}

// List handles GET /api/v1/admin/citas. With ?registro_id= it returns every
// appointment for that lead; otherwise it lists one day (?dia=, default today).
func (h *Handler) List(c *gin.Context) {
	if raw := c.Query("registro_id"); raw != "" {
		leadID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid registro_id", nil)
			return
		}
		items, err := h.svc.ListForLead(c.Request.Context(), leadID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, transport.ToAppointmentList(items))
		return
	}

	day, ok := parseDay(c)
	if !ok {
		return
	}

	items, err := h.svc.ListDay(c.Request.Context(), day)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToAppointmentList(items))
}

// Get handles GET /api/v1/admin/citas/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}

	appt, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToAppointmentResponse(appt))
}

// UpdateStatus handles PATCH /api/v1/admin/citas/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), id, repository.Status(req.Status)); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": req.Status})
}

// parseDay reads the optional ?dia= query parameter (YYYY-MM-DD).
func parseDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("dia")
	if raw == "" {
		return time.Now(), true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid dia, expected YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return day, true
}
