package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"callcenter_backend/internal/leads/domain"
	"callcenter_backend/internal/leads/repository"
	"callcenter_backend/internal/leads/service"
	"callcenter_backend/platform/apperr"
	"callcenter_backend/platform/httpkit"
	validatorpkg "callcenter_backend/platform/validator"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStore serves a fixed pool of claimable leads; everything else fails
// loudly so a test exercising an unexpected path is caught.
type stubStore struct {
	leads map[uuid.UUID]*repository.Lead
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Lead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return nil, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (s *stubStore) FindNextEligible(_ context.Context, _ []uuid.UUID) (*repository.Lead, error) {
	for _, lead := range s.leads {
		if lead.OwningAgentID == nil {
			return lead, nil
		}
	}
	return nil, apperr.NotFound("no eligible leads")
}

func (s *stubStore) Claim(_ context.Context, leadID, agentID uuid.UUID) (*repository.Lead, error) {
	lead, ok := s.leads[leadID]
	if !ok || lead.OwningAgentID != nil {
		return nil, apperr.Conflict("lead already claimed")
	}
	lead.OwningAgentID = &agentID
	lead.State = domain.StateInProgress
	lead.AttemptCount++
	return lead, nil
}

func (s *stubStore) RecordDisposition(_ context.Context, _ repository.DispositionParams) (*repository.DispositionResult, error) {
	return nil, apperr.Internal("not wired in this test")
}

func (s *stubStore) Release(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, apperr.Internal("not wired in this test")
}

func (s *stubStore) SweepStale(_ context.Context, _ time.Duration) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *stubStore) Recycle(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubStore) Summary(_ context.Context, _ uuid.UUID, _, _ time.Time) (*repository.DailySummary, error) {
	return &repository.DailySummary{}, nil
}

type stubGate struct{ blocked bool }

func (g stubGate) IsBlocked(_ context.Context, _ uuid.UUID) (bool, error) { return g.blocked, nil }
func (g stubGate) TouchActivity(_ context.Context, _ uuid.UUID)           {}

func newTestRouter(t *testing.T, store service.Store, gate service.AgentGate, agentID uuid.UUID) *gin.Engine {
	t.Helper()

	val := validatorpkg.New()
	if err := val.RegisterValidation("disposition", func(fl validatorv10.FieldLevel) bool {
		return domain.Disposition(fl.Field().String()).IsValid()
	}); err != nil {
		t.Fatalf("register disposition tag: %v", err)
	}

	svc := service.New(store, gate, nil, nil, service.Config{
		ClaimRetries:   3,
		StaleThreshold: 30 * time.Minute,
		ReportingZone:  time.UTC,
	})
	h := New(svc, val, "MX", nil)

	engine := gin.New()
	authed := engine.Group("")
	authed.Use(func(c *gin.Context) {
		if agentID != uuid.Nil {
			c.Set(httpkit.ContextAgentIDKey, agentID)
			c.Set(httpkit.ContextRolesKey, []string{"agent", "admin"})
		}
	})
	h.RegisterAgentRoutes(authed)
	h.RegisterAdminRoutes(authed.Group("/admin"))
	return engine
}

func claimableLead() *repository.Lead {
	return &repository.Lead{
		ID:           uuid.New(),
		CampaignID:   uuid.New(),
		FullName:     "Laura Mendoza",
		PhoneNumbers: []string{"5512345678"},
		State:        domain.StatePending,
		PoolActive:   true,
	}
}

func TestSiguienteReturnsClaimedLead(t *testing.T) {
	lead := claimableLead()
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{lead.ID: lead}}
	router := newTestRouter(t, store, stubGate{}, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agent/siguiente", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["registro_id"] != lead.ID.String() {
		t.Fatalf("registro_id = %v, want %s", body["registro_id"], lead.ID)
	}
	if body["estado"] != string(domain.StateInProgress) {
		t.Fatalf("estado = %v, want in_progress", body["estado"])
	}
	phones, _ := body["telefonos"].([]interface{})
	if len(phones) != 1 || phones[0] != "+525512345678" {
		t.Fatalf("telefonos = %v, want normalized E.164", body["telefonos"])
	}
}

func TestSiguienteEmptyPoolMapsTo404(t *testing.T) {
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{}}
	router := newTestRouter(t, store, stubGate{}, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agent/siguiente", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSiguienteBlockedAgentMapsTo403(t *testing.T) {
	lead := claimableLead()
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{lead.ID: lead}}
	router := newTestRouter(t, store, stubGate{blocked: true}, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agent/siguiente", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if lead.OwningAgentID != nil {
		t.Fatalf("blocked agent must not claim a lead")
	}
}

func TestSiguienteWithoutIdentityMapsTo401(t *testing.T) {
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{}}
	router := newTestRouter(t, store, stubGate{}, uuid.Nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agent/siguiente", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestGuardarGestionRejectsMalformedBody(t *testing.T) {
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{}}
	router := newTestRouter(t, store, stubGate{}, uuid.New())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/agente/guardar-gestion", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGuardarGestionRejectsUnknownDisposition(t *testing.T) {
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{}}
	router := newTestRouter(t, store, stubGate{}, uuid.New())

	payload := `{"registro_id":"` + uuid.NewString() + `","estado_final":"lost_to_competitor"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/agente/guardar-gestion", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGuardarGestionRejectsBadFechaCita(t *testing.T) {
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{}}
	router := newTestRouter(t, store, stubGate{}, uuid.New())

	payload := `{"registro_id":"` + uuid.NewString() + `","estado_final":"appointment_scheduled","fecha_cita":"next tuesday"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/agente/guardar-gestion", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReciclarRejectsNonUUIDBase(t *testing.T) {
	store := &stubStore{leads: map[uuid.UUID]*repository.Lead{}}
	router := newTestRouter(t, store, stubGate{}, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/bases/not-a-uuid/reciclar", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
