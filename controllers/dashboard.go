package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"energy-center-checklist/services"

	"github.com/gin-gonic/gin"
)

// GET /dashboard
func Dashboard(c *gin.Context) {
	submissions, pagination, err := services.NewChecklistService(nil, facilityLocation()).
		List(c.Request.Context(), queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		respondError(c, err, "")
		return
	}

	render(c, "dashboard.html", "Checklists", gin.H{
		"Submissions": submissions,
		"Pagination":  pagination,
		"Filters":     url.Values{},
	})
}

// GET /dashboard_status
func StatusDashboard(c *gin.Context) {
	dashboard, err := services.NewReportService(nil).StatusDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	render(c, "dashboard_status.html", "Status", gin.H{"Dashboard": dashboard})
}

// GET /dashboard_equipamentos
func EquipmentDashboard(c *gin.Context) {
	dashboard, err := services.NewReportService(nil).EquipmentDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	render(c, "dashboard_equipamentos.html", "Equipamentos", gin.H{"Dashboard": dashboard})
}

// GET /detalhes/:tipo
func TypeDetail(c *gin.Context) {
	detail, err := services.NewReportService(nil).TypeDetail(c.Request.Context(), c.Param("tipo"))
	if err != nil {
		respondError(c, err, "Tipo não encontrado")
		return
	}
	render(c, "detalhes_tipo.html", detail.Type, gin.H{"Detail": detail})
}

// GET /detalhes_status/:status
func StatusDetail(c *gin.Context) {
	detail, err := services.NewReportService(nil).StatusDetail(c.Request.Context(), c.Param("status"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.String(http.StatusNotFound, "Status não encontrado")
			return
		}
		respondError(c, err, "")
		return
	}
	render(c, "detalhes_status.html", detail.Status.String(), gin.H{"Detail": detail})
}
