package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"energy-center-checklist/services"

	"github.com/gin-gonic/gin"
)

func historyFilter(c *gin.Context) services.HistoryFilter {
	f := services.HistoryFilter{
		Technician: strings.TrimSpace(c.Query("tecnico")),
		Type:       strings.TrimSpace(c.Query("tipo")),
		DateFrom:   strings.TrimSpace(c.Query("data_inicio")),
		DateTo:     strings.TrimSpace(c.Query("data_fim")),
		Page:       queryInt(c, "page"),
		PageSize:   queryInt(c, "page_size"),
	}
	if id, ok := parseID(c.Query("equipamento_id")); ok {
		f.EquipmentID = id
	}
	if id, ok := parseID(c.Query("checklist_id")); ok {
		f.SubmissionID = id
	}
	return f
}

// GET /historico
func StatusHistory(c *gin.Context) {
	filter := historyFilter(c)
	page, err := services.NewHistoryService(nil, facilityLocation()).StatusHistory(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "")
		return
	}

	render(c, "historico.html", "Histórico", gin.H{
		"Page":       page,
		"Filter":     filter,
		"Filters":    c.Request.URL.Query(),
		"Pagination": page.Pagination,
	})
}

// GET /historico_checklist
func ChecklistHistory(c *gin.Context) {
	filter := historyFilter(c)
	page, err := services.NewHistoryService(nil, facilityLocation()).ChecklistHistory(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "")
		return
	}

	render(c, "historico_checklist.html", "Histórico de itens", gin.H{
		"Page":       page,
		"Filter":     filter,
		"Filters":    c.Request.URL.Query(),
		"Pagination": page.Pagination,
	})
}

// GET /historico/exportar
func ExportStatusHistory(c *gin.Context) {
	loc := facilityLocation()
	entries, err := services.NewHistoryService(nil, loc).StatusHistoryAll(c.Request.Context(), historyFilter(c))
	if err != nil {
		respondError(c, err, "")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteStatusHistoryXLSX(&buf, entries, loc); err != nil {
		respondError(c, fmt.Errorf("failed to export status history: %w", err), "")
		return
	}

	filename := fmt.Sprintf("historico_status_%s.xlsx", time.Now().In(loc).Format("20060102_1504"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, services.XLSXContentType, buf.Bytes())
}
