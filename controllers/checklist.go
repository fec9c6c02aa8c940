package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"energy-center-checklist/middleware"
	"energy-center-checklist/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /
func ChecklistForm(c *gin.Context) {
	ctx := c.Request.Context()

	groups, err := services.NewChecklistService(nil, facilityLocation()).FormCatalog(ctx)
	if err != nil {
		respondError(c, err, "")
		return
	}
	equipment, err := services.NewStatusService(nil, facilityLocation(), nil).ListByType(ctx, services.AllTypes)
	if err != nil {
		respondError(c, err, "")
		return
	}

	render(c, "checklist.html", "Checklist", gin.H{
		"Groups":    groups,
		"Equipment": equipment,
	})
}

// POST /salvar, /salvar_main, /salvar_supplier
func SubmitChecklist(subset services.ItemSubset) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.String(http.StatusBadRequest, "Formulário inválido")
			return
		}

		result, err := services.NewChecklistService(nil, facilityLocation()).
			Submit(c.Request.Context(), c.Request.PostForm, subset)
		if err != nil {
			respondError(c, err, "")
			return
		}

		middleware.Logger(c).Info("Checklist saved",
			zap.Uint("checklist_id", result.Submission.ID),
			zap.String("subset", string(subset)),
			zap.Int("records", result.RecordCount),
			zap.Int("operating", result.SnapshotCount),
		)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// GET /checklist/:id
func ShowChecklist(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "Checklist não encontrado")
		return
	}

	detail, err := services.NewChecklistService(nil, facilityLocation()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Checklist não encontrado")
		return
	}

	render(c, "detalhes.html", fmt.Sprintf("Checklist #%d", id), gin.H{
		"Detail":       detail,
		"LinksEnabled": reportLinker().Enabled(),
	})
}

// GET /checklist/:id/exportar
func ExportChecklist(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "Checklist não encontrado")
		return
	}

	detail, err := services.NewChecklistService(nil, facilityLocation()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Checklist não encontrado")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteChecklistXLSX(&buf, detail, facilityLocation()); err != nil {
		respondError(c, fmt.Errorf("failed to export checklist %d: %w", id, err), "")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="checklist_%d.xlsx"`, id))
	c.Data(http.StatusOK, services.XLSXContentType, buf.Bytes())
}
