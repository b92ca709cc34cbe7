// Package transport defines the wire types for the appointments module.
package transport

import (
	"time"

	"callcenter_backend/internal/appointments/repository"

	"github.com/google/uuid"
)

// UpdateStatusRequest is a supervisor status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled no_show"`
}

// AppointmentResponse is the wire shape of one appointment.
type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	RegistroID  uuid.UUID `json:"registro_id"`
	AgentID     uuid.UUID `json:"agent_id"`
	FechaCita   time.Time `json:"fecha_cita"`
	AgenciaCita string    `json:"agencia_cita"`
	Notas       *string   `json:"notas,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAppointmentResponse maps one appointment to its wire shape.
func ToAppointmentResponse(a *repository.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		RegistroID:  a.LeadID,
		AgentID:     a.AgentID,
		FechaCita:   a.ScheduledAt,
		AgenciaCita: a.Location,
		Notas:       a.Notes,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

// ToAppointmentList maps a slice of appointments.
func ToAppointmentList(items []repository.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, len(items))
	for i := range items {
		out[i] = ToAppointmentResponse(&items[i])
	}
	return out
}
