package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"energy-center-checklist/config"
	"energy-center-checklist/middleware"
	"energy-center-checklist/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newStatusService() *services.StatusService {
	var alerter services.StatusAlerter
	if mail := services.NewMailAlerter(&config.Cfg, nil); mail != nil {
		alerter = mail
	}
	return services.NewStatusService(nil, facilityLocation(), alerter)
}

func renderStatusPage(c *gin.Context, action, selected string) {
	ctx := c.Request.Context()
	svc := newStatusService()

	equipment, err := svc.ListByType(ctx, selected)
	if err != nil {
		respondError(c, err, "")
		return
	}
	types, err := svc.Types(ctx)
	if err != nil {
		respondError(c, err, "")
		return
	}

	render(c, "status.html", "Atualizar status", gin.H{
		"Action":    action,
		"Equipment": equipment,
		"Types":     append([]string{services.AllTypes}, types...),
		"Selected":  selected,
	})
}

// GET /status
func StatusPage(c *gin.Context) {
	selected := strings.TrimSpace(c.Query("tipo"))
	if selected == "" {
		selected = services.AllTypes
	}
	renderStatusPage(c, "/status", selected)
}

// GET /atualizar_status
func UpdateStatusPage(c *gin.Context) {
	selected := strings.TrimSpace(c.Query("tipo"))
	if selected == "" {
		c.Redirect(http.StatusSeeOther, statusRedirect(config.Cfg.DefaultStatusType))
		return
	}
	renderStatusPage(c, "/atualizar_status", selected)
}

// POST /status, /atualizar_status
func UpdateStatus(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "Formulário inválido")
		return
	}
	form := c.Request.PostForm

	current := strings.TrimSpace(form.Get("tipo_atual"))
	if current == "" {
		current = services.AllTypes
	}

	id, ok := parseID(form.Get("equipamento_id"))
	if !ok {
		c.String(http.StatusBadRequest, "Equipamento inválido")
		return
	}
	key := fmt.Sprint(id)

	change, err := newStatusService().Update(c.Request.Context(), services.StatusUpdate{
		EquipmentID: id,
		Status:      form.Get("status_" + key),
		Observation: form.Get("obs_" + key),
		Technician:  form.Get("tec_" + key),
	})
	switch {
	case err == nil:
		middleware.Logger(c).Info("Equipment status updated",
			zap.Uint("equipment_id", id),
			zap.String("equipment", change.Equipment.Name),
			zap.String("from", change.Entry.PreviousStatus.String()),
			zap.String("to", change.Entry.NewStatus.String()),
		)
	case errors.Is(err, services.ErrEquipmentNotFound):
		middleware.Logger(c).Warn("Status update for unknown equipment", zap.Uint("equipment_id", id))
	default:
		respondError(c, err, "")
		return
	}

	c.Redirect(http.StatusSeeOther, statusRedirect(current))
}

func statusRedirect(tipo string) string {
	return "/atualizar_status?tipo=" + url.QueryEscape(tipo)
}
