package services

import (
	"bytes"
	"testing"
	"time"

	"energy-center-checklist/models"
)

func sampleDetail() *ChecklistDetail {
	ok, nok := true, false
	comment := "vazamento na gaxeta"
	return &ChecklistDetail{
		Submission: models.ChecklistSubmission{
			ID:         12,
			Technician: "João",
			TeamLeader: "Márcia",
			Shift:      "1º Turno",
			CreatedAt:  time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC),
		},
		Groups: GroupRecords([]models.ItemRecord{
			{System: SystemCompressedAir, Description: "Pressão de linha", Unit: "bar",
				MinValue: floatPtr(6), MaxValue: floatPtr(8), RecordedValue: floatPtr(7.2), PassFlag: &ok},
			{System: SystemChilledWater, Description: "Temperatura de saída", Unit: "°C",
				MinValue: floatPtr(5), MaxValue: floatPtr(8), RecordedValue: floatPtr(9.5), PassFlag: &nok, Comment: &comment},
			{System: SystemHVACAssembly, Description: "Filtro"},
		}),
		Operations: []models.OperatingSnapshot{
			{EquipmentName: "Compressor 01", Type: "Compressor", Status: models.OperatingLabel},
		},
	}
}

func TestRenderChecklistPDFLayouts(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	for _, layout := range []PDFLayout{LayoutClassic, LayoutModern} {
		t.Run(string(layout), func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderChecklistPDF(&buf, sampleDetail(), layout, loc); err != nil {
				t.Fatalf("RenderChecklistPDF: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Fatalf("output is not a PDF document")
			}
		})
	}
}

func TestRenderChecklistPDFWithoutRecords(t *testing.T) {
	var buf bytes.Buffer
	detail := &ChecklistDetail{Submission: models.ChecklistSubmission{ID: 1}}
	if err := RenderChecklistPDF(&buf, detail, LayoutClassic, time.UTC); err != nil {
		t.Fatalf("RenderChecklistPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a document")
	}
}

func TestParsePDFLayout(t *testing.T) {
	cases := map[string]PDFLayout{
		"":         LayoutClassic,
		"classic":  LayoutClassic,
		" Modern ": LayoutModern,
		"fancy":    LayoutClassic,
	}
	for in, want := range cases {
		if got := ParsePDFLayout(in); got != want {
			t.Errorf("ParsePDFLayout(%q) = %q, want %q", in, got, want)
		}
	}
}
