// Package transport defines the wire types for the agents module.
package transport

import (
	"time"

	"callcenter_backend/internal/agents/repository"

	"github.com/google/uuid"
)

// EstadoRequest changes the calling agent's operational state. The optional
// registro_id is the lead the agent currently holds, released on pause.
type EstadoRequest struct {
	Estado     string     `json:"estado" validate:"required,agentstate"`
	RegistroID *uuid.UUID `json:"registro_id,omitempty"`
}

// BloquearmeRequest is the inactivity-timeout self-block.
type BloquearmeRequest struct {
	RegistroID *uuid.UUID `json:"registro_id,omitempty"`
}

// EstadoResponse reports the applied transition.
type EstadoResponse struct {
	Estado           string `json:"estado"`
	RegistroLiberado bool   `json:"registro_liberado"`
}

// PresenciaResponse reports how many agents hold a live presence session.
type PresenciaResponse struct {
	EnLinea int `json:"en_linea"`
}

// AgentResponse is the agent's operational record. EstadoEnVivo is the
// presence heartbeat state, absent when no session is live.
type AgentResponse struct {
	ID              uuid.UUID  `json:"id"`
	NombreCompleto  string     `json:"nombre_completo"`
	Estado          string     `json:"estado"`
	EstadoEnVivo    *string    `json:"estado_en_vivo,omitempty"`
	Bloqueado       bool       `json:"bloqueado"`
	BloqueadoDesde  *time.Time `json:"bloqueado_desde,omitempty"`
	UltimaActividad time.Time  `json:"ultima_actividad"`
}

// ToAgentResponse maps an agent record to its wire shape.
func ToAgentResponse(a *repository.Agent) AgentResponse {
	return AgentResponse{
		ID:              a.ID,
		NombreCompleto:  a.FullName,
		Estado:          string(a.OperationalState),
		Bloqueado:       a.Blocked,
		BloqueadoDesde:  a.BlockedAt,
		UltimaActividad: a.LastActivityAt,
	}
}
