// Package transport defines the wire types for the leads module. Field names
// stay in Spanish to match the dialer frontend contract.
package transport

import (
	"time"

	"callcenter_backend/internal/leads/domain"
	"callcenter_backend/internal/leads/repository"
	"callcenter_backend/platform/phone"

	"github.com/google/uuid"
)

// fechaCitaLayout is the frontend's local-time appointment format. RFC 3339
// is accepted as a fallback.
const fechaCitaLayout = "2006-01-02T15:04"

// GuardarGestionRequest is one contact-attempt outcome submitted by an agent.
type GuardarGestionRequest struct {
	RegistroID  uuid.UUID `json:"registro_id" validate:"required"`
	EstadoFinal string    `json:"estado_final" validate:"required,disposition"`
	FechaCita   *string   `json:"fecha_cita,omitempty"`
	AgenciaCita *string   `json:"agencia_cita,omitempty" validate:"omitempty,min=1,max=200"`
	Comentarios *string   `json:"comentarios,omitempty" validate:"omitempty,max=2000"`
}

// ParseFechaCita parses the appointment date in the frontend's local format,
// falling back to RFC 3339.
func (r GuardarGestionRequest) ParseFechaCita(zone *time.Location) (*time.Time, error) {
	if r.FechaCita == nil || *r.FechaCita == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(fechaCitaLayout, *r.FechaCita, zone); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, *r.FechaCita)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GestionResponse is returned after a committed disposition.
type GestionResponse struct {
	RegistroID   uuid.UUID        `json:"registro_id"`
	EstadoFinal  string           `json:"estado_final"`
	CitaCreada   bool             `json:"cita_creada"`
	CitaID       *uuid.UUID       `json:"cita_id,omitempty"`
	ResumenDelDia ResumenResponse `json:"resumen_del_dia"`
}

// ResumenResponse is the agent's daily activity summary.
type ResumenResponse struct {
	TotalGestiones int `json:"total_gestiones"`
	TotalCitas     int `json:"total_citas"`
	TotalLlamar    int `json:"total_volver_a_llamar"`
}

// LeadResponse is the payload handed to an agent on a successful claim.
type LeadResponse struct {
	RegistroID     uuid.UUID `json:"registro_id"`
	NombreCompleto string    `json:"nombre_completo"`
	Telefonos      []string  `json:"telefonos"`
	Marca          *string   `json:"marca,omitempty"`
	Modelo         *string   `json:"modelo,omitempty"`
	Anio           *int      `json:"anio,omitempty"`
	Notas          *string   `json:"notas,omitempty"`
	Estado         string    `json:"estado"`
	Intento        int       `json:"intento"`
}

// ToLeadResponse maps a claimed lead to its wire shape. Phone numbers are
// normalized to E.164 for the dialer; unparseable numbers pass through as-is.
func ToLeadResponse(lead *repository.Lead, region string) LeadResponse {
	return LeadResponse{
		RegistroID:     lead.ID,
		NombreCompleto: lead.FullName,
		Telefonos:      phone.NormalizeAll(lead.PhoneNumbers, region),
		Marca:          lead.VehicleMake,
		Modelo:         lead.VehicleModel,
		Anio:           lead.VehicleYear,
		Notas:          lead.VehicleNotes,
		Estado:         string(lead.State),
		Intento:        lead.AttemptCount,
	}
}

// ToResumenResponse maps the repository summary to its wire shape.
func ToResumenResponse(s *repository.DailySummary) ResumenResponse {
	if s == nil {
		return ResumenResponse{}
	}
	return ResumenResponse{
		TotalGestiones: s.TotalDispositions,
		TotalCitas:     s.TotalAppointments,
		TotalLlamar:    s.TotalCallbacks,
	}
}

// SweepRequest optionally overrides the configured stale threshold.
type SweepRequest struct {
	UmbralMinutos *int `json:"umbral_minutos,omitempty" validate:"omitempty,min=1,max=1440"`
}

// SweepResponse reports a manual sweeper run.
type SweepResponse struct {
	Liberados []uuid.UUID `json:"liberados"`
	Total     int         `json:"total"`
}

// LiberarResponse reports an administrative lead release.
type LiberarResponse struct {
	RegistroID uuid.UUID `json:"registro_id"`
	Liberado   bool      `json:"liberado"`
}

// RecycleQueuedResponse acknowledges a recycle handed to the background
// worker.
type RecycleQueuedResponse struct {
	BaseID   uuid.UUID `json:"base_id"`
	Encolado bool      `json:"encolado"`
}

// RecycleResponse reports a batch recycle run.
type RecycleResponse struct {
	BaseID     uuid.UUID `json:"base_id"`
	Reciclados int64     `json:"reciclados"`
}

// DispositionCodes lists the accepted estado_final values, used by the
// custom validator tag.
func DispositionCodes() []string {
	codes := domain.Dispositions()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
