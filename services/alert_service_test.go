package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/models"
)

func TestNewMailAlerterDisabledWithoutConfig(t *testing.T) {
	if NewMailAlerter(nil, nil) != nil {
		t.Fatalf("nil config should disable alerts")
	}
	noSMTP := &config.Config{AlertRecipients: []string{"ops@example.com"}}
	if NewMailAlerter(noSMTP, nil) != nil {
		t.Fatalf("missing SMTP should disable alerts")
	}
	noRecipients := &config.Config{SMTPHost: "smtp.example.com", SMTPFrom: "noreply@example.com"}
	if NewMailAlerter(noRecipients, nil) != nil {
		t.Fatalf("missing recipients should disable alerts")
	}

	var alerter *MailAlerter
	if err := alerter.NotifyNOK(context.Background(), models.EquipmentStatus{}, models.StatusHistoryEntry{}); err != nil {
		t.Fatalf("nil alerter should be a no-op, got %v", err)
	}
}

func TestMailAlerterSendsNOKAlert(t *testing.T) {
	cfg := &config.Config{
		SMTPHost:               "smtp.example.com",
		SMTPFrom:               "noreply@example.com",
		AlertRecipients:        []string{"ops@example.com", "lead@example.com"},
		FacilityUTCOffsetHours: -3,
	}

	var gotTo []string
	var gotSubject, gotBody string
	alerter := NewMailAlerter(cfg, func(to []string, subject, html string) error {
		gotTo, gotSubject, gotBody = to, subject, html
		return nil
	})
	if alerter == nil {
		t.Fatalf("expected alerter to be enabled")
	}

	equipment := models.EquipmentStatus{Name: "BAG 03", Type: "BAG", Status: models.StatusNOK}
	entry := models.StatusHistoryEntry{
		PreviousStatus: models.StatusOK,
		NewStatus:      models.StatusNOK,
		Technician:     "Carlos",
		Observation:    "<vazamento>",
		ChangedAt:      time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC),
	}
	if err := alerter.NotifyNOK(context.Background(), equipment, entry); err != nil {
		t.Fatalf("NotifyNOK: %v", err)
	}

	if len(gotTo) != 2 {
		t.Fatalf("unexpected recipients: %v", gotTo)
	}
	if gotSubject != "[Central de Energia] BAG 03 em NOK" {
		t.Fatalf("unexpected subject %q", gotSubject)
	}
	if !strings.Contains(gotBody, "05/03/2025 12:00") || !strings.Contains(gotBody, "&lt;vazamento&gt;") {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestMailAlerterReportsSendFailure(t *testing.T) {
	cfg := &config.Config{
		SMTPHost:        "smtp.example.com",
		SMTPFrom:        "noreply@example.com",
		AlertRecipients: []string{"ops@example.com"},
	}
	alerter := NewMailAlerter(cfg, func([]string, string, string) error {
		return errors.New("connection refused")
	})

	err := alerter.NotifyNOK(context.Background(), models.EquipmentStatus{Name: "Torre 01"}, models.StatusHistoryEntry{})
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected send error, got %v", err)
	}
}
