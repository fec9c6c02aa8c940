package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/middleware"
	"energy-center-checklist/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func reportLinker() *services.ReportLinker {
	return services.NewReportLinker(config.Cfg.ReportLinkSecret, config.Cfg.ReportLinkTTL())
}

// GET /gerar_pdf?id=, /gerar_pdf_moderno?id=
func ChecklistPDF(layout services.PDFLayout) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c.Query("id"))
		if !ok {
			c.String(http.StatusBadRequest, "Parâmetro id inválido")
			return
		}
		writeChecklistPDF(c, id, layout)
	}
}

// GET /gerar_pdf/link?id=&layout=
func ChecklistPDFLink(c *gin.Context) {
	linker := reportLinker()
	if !linker.Enabled() {
		c.String(http.StatusNotFound, "Não encontrado")
		return
	}

	id, ok := parseID(c.Query("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, err := services.NewChecklistService(nil, facilityLocation()).Get(c.Request.Context(), id); err != nil {
		respondError(c, err, "Checklist não encontrado")
		return
	}

	link, err := linker.Sign(id, services.ParsePDFLayout(c.Query("layout")))
	if err != nil {
		respondError(c, err, "Não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        "/relatorio/" + link.Token,
		"expires_at": link.ExpiresAt.In(facilityLocation()).Format(time.RFC3339),
	})
}

// GET /relatorio/:token
func SharedChecklistPDF(c *gin.Context) {
	linker := reportLinker()
	if !linker.Enabled() {
		c.String(http.StatusNotFound, "Não encontrado")
		return
	}

	claims, err := linker.Verify(c.Param("token"))
	if err != nil {
		middleware.Logger(c).Info("Rejected report link", zap.Error(err))
		c.String(http.StatusForbidden, "Link inválido ou expirado")
		return
	}
	writeChecklistPDF(c, claims.SubmissionID, claims.Layout)
}

func writeChecklistPDF(c *gin.Context, id uint, layout services.PDFLayout) {
	loc := facilityLocation()
	detail, err := services.NewChecklistService(nil, loc).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Checklist não encontrado")
		return
	}

	var buf bytes.Buffer
	if err := services.RenderChecklistPDF(&buf, detail, layout, loc); err != nil {
		respondError(c, fmt.Errorf("failed to render checklist %d: %w", id, err), "")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="checklist_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
