package transport

import (
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func TestParseFechaCitaLocalLayout(t *testing.T) {
	zone := time.FixedZone("CST", -6*3600)
	req := GuardarGestionRequest{FechaCita: strptr("2026-09-14T16:30")}

	got, err := req.ParseFechaCita(zone)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 9, 14, 16, 30, 0, 0, zone)
	if got == nil || !got.Equal(want) {
		t.Fatalf("parsed = %v, want %v", got, want)
	}
}

func TestParseFechaCitaRFC3339Fallback(t *testing.T) {
	req := GuardarGestionRequest{FechaCita: strptr("2026-09-14T16:30:00-06:00")}

	got, err := req.ParseFechaCita(time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 9, 14, 22, 30, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("parsed = %v, want %v", got, want)
	}
}

func TestParseFechaCitaAbsent(t *testing.T) {
	for _, fc := range []*string{nil, strptr("")} {
		req := GuardarGestionRequest{FechaCita: fc}
		got, err := req.ParseFechaCita(time.UTC)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil time for absent fecha_cita, got %v", got)
		}
	}
}

func TestParseFechaCitaRejectsGarbage(t *testing.T) {
	req := GuardarGestionRequest{FechaCita: strptr("mañana a las cuatro")}
	if _, err := req.ParseFechaCita(time.UTC); err == nil {
		t.Fatalf("expected error for unparseable date")
	}
}
