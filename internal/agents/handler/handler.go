package handler

import (
	"net/http"

	"callcenter_backend/internal/agents/domain"
	"callcenter_backend/internal/agents/service"
	"callcenter_backend/internal/agents/transport"
	"callcenter_backend/platform/httpkit"
	"callcenter_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for agent operational state.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new agents handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterAgentRoutes mounts the agent-facing routes.
func (h *Handler) RegisterAgentRoutes(rg *gin.RouterGroup) {
	rg.POST("/agente/estado", h.Estado)
	rg.POST("/agente/bloquearme", h.Bloquearme)
	rg.GET("/agente/yo", h.Yo)
}

// RegisterAdminRoutes mounts the admin routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/agentes/:id/desbloquear", h.Desbloquear)
	rg.GET("/agentes/:id", h.GetAgente)
	rg.GET("/presencia", h.Presencia)
}

// Estado handles POST /api/v1/agente/estado.
func (h *Handler) Estado(c *gin.Context) {
	var req transport.EstadoRequest
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

	change, err := h.svc.SetOperationalState(c.Request.Context(), identity.AgentID(),
		domain.OperationalState(req.Estado), req.RegistroID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.EstadoResponse{
		Estado:           string(change.State),
		RegistroLiberado: change.ReleasedLead,
	})
}

// Bloquearme handles POST /api/v1/agente/bloquearme: the client-side
// inactivity timeout. Always releases the provided lead and blocks the agent.
func (h *Handler) Bloquearme(c *gin.Context) {
	var req transport.BloquearmeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	change, err := h.svc.Block(c.Request.Context(), identity.AgentID(), req.RegistroID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.EstadoResponse{
		Estado:           "blocked",
		RegistroLiberado: change.ReleasedLead,
	})
}

// Yo handles GET /api/v1/agente/yo: the calling agent's own record.
func (h *Handler) Yo(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	agent, err := h.svc.Get(c.Request.Context(), identity.AgentID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToAgentResponse(agent))
}

// Desbloquear handles POST /api/v1/admin/agentes/:id/desbloquear.
func (h *Handler) Desbloquear(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid agent id", nil)
		return
	}

	if err := h.svc.Unblock(c.Request.Context(), agentID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"desbloqueado": true})
}

// GetAgente handles GET /api/v1/admin/agentes/:id.
func (h *Handler) GetAgente(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid agent id", nil)
		return
	}

	agent, err := h.svc.Get(c.Request.Context(), agentID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ToAgentResponse(agent)
	if live, ok, err := h.svc.LiveState(c.Request.Context(), agentID); err == nil && ok {
		s := string(live)
		resp.EstadoEnVivo = &s
	}

	httpkit.OK(c, resp)
}

// Presencia handles GET /api/v1/admin/presencia: live-session head count.
func (h *Handler) Presencia(c *gin.Context) {
	online, err := h.svc.OnlineCount(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PresenciaResponse{EnLinea: online})
}
