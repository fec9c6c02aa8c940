package utils

import (
	"testing"

	"energy-center-checklist/models"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   models.Status
		wantOK bool
	}{
		{"OK", models.StatusOK, true},
		{" ok ", models.StatusOK, true},
		{"NOK", models.StatusNOK, true},
		{"nok", models.StatusNOK, true},
		{"Manutenção", models.StatusMaintenance, true},
		{"MANUTENCAO", models.StatusMaintenance, true},
		{"manutencao", models.StatusMaintenance, true},
		{"Em  Manutenção", models.StatusMaintenance, true},
		{"quebrado", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCanonicalStatusRejectsFormSynonyms(t *testing.T) {
	for _, raw := range []string{"OK", "ok", "NOK", "Manutenção", "MANUTENCAO", " manutenção "} {
		if _, ok := CanonicalStatus(raw); !ok {
			t.Errorf("CanonicalStatus(%q) should be accepted", raw)
		}
	}
	for _, raw := range []string{"operando", "parado", "falha", "man", "not ok", "Em Manutenção", ""} {
		if got, ok := CanonicalStatus(raw); ok {
			t.Errorf("CanonicalStatus(%q) = %q, want rejected", raw, got)
		}
		if _, ok := ParseStatus(raw); !ok && raw != "" {
			t.Errorf("ParseStatus(%q) should still accept the form synonym", raw)
		}
	}
}

func TestFoldKey(t *testing.T) {
	if got := FoldKey("  Água   Gelada "); got != "agua gelada" {
		t.Fatalf("FoldKey = %q, want %q", got, "agua gelada")
	}
}

func TestStatusCSSClass(t *testing.T) {
	tests := map[models.Status]string{
		models.StatusOK:          "status-ok",
		models.StatusNOK:         "status-nok",
		models.StatusMaintenance: "status-man",
		"manutencao":             "status-man",
		"???":                    "status-unknown",
	}
	for status, want := range tests {
		if got := StatusCSSClass(status); got != want {
			t.Errorf("StatusCSSClass(%q) = %q, want %q", status, got, want)
		}
	}
}
