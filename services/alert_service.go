package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/models"
	"energy-center-checklist/utils"

	"go.uber.org/zap"
)

// MailSender delivers one HTML message.
type MailSender func(to []string, subject, html string) error

// MailAlerter emails the configured recipients when equipment goes NOK.
type MailAlerter struct {
	recipients []string
	send       MailSender
	loc        *time.Location
}

// NewMailAlerter returns nil when SMTP or the recipient list is not
// configured, which disables alerts.
func NewMailAlerter(cfg *config.Config, send MailSender) *MailAlerter {
	if cfg == nil || !cfg.SMTPConfigured() || len(cfg.AlertRecipients) == 0 {
		return nil
	}
	if send == nil {
		send = config.SendMail
	}
	return &MailAlerter{recipients: cfg.AlertRecipients, send: send, loc: cfg.FacilityLocation()}
}

var nokAlertTemplate = template.Must(template.New("nok").Parse(`<p>O equipamento <strong>{{.Name}}</strong> ({{.Type}}) passou para <strong>NOK</strong>.</p>
<table cellpadding="4">
<tr><td>Status anterior</td><td>{{.Previous}}</td></tr>
<tr><td>Técnico</td><td>{{.Technician}}</td></tr>
<tr><td>Observação</td><td>{{.Observation}}</td></tr>
<tr><td>Data</td><td>{{.ChangedAt}}</td></tr>
</table>`))

// NotifyNOK sends the alert. Nil receivers are a no-op.
func (a *MailAlerter) NotifyNOK(ctx context.Context, equipment models.EquipmentStatus, entry models.StatusHistoryEntry) error {
	if a == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	err := nokAlertTemplate.Execute(&body, map[string]string{
		"Name":        equipment.Name,
		"Type":        equipment.Type,
		"Previous":    entry.PreviousStatus.String(),
		"Technician":  entry.Technician,
		"Observation": entry.Observation,
		"ChangedAt":   utils.FormatDateTime(entry.ChangedAt, a.loc),
	})
	if err != nil {
		return fmt.Errorf("failed to render alert: %w", err)
	}

	subject := fmt.Sprintf("[Central de Energia] %s em NOK", equipment.Name)
	if err := a.send(a.recipients, subject, body.String()); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}

	config.Logger.Info("NOK alert sent",
		zap.String("equipment", equipment.Name),
		zap.Int("recipients", len(a.recipients)),
	)
	return nil
}
