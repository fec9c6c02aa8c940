package routes

import (
	"net/http"

	"energy-center-checklist/config"
	"energy-center-checklist/controllers"
	"energy-center-checklist/monitor"
	"energy-center-checklist/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, cfg *config.Config) {
	// Checklist form and submission
	router.GET("/", controllers.ChecklistForm)
	router.POST("/salvar", controllers.SubmitChecklist(services.SubsetAll))
	router.POST("/salvar_main", controllers.SubmitChecklist(services.SubsetMain))
	router.POST("/salvar_supplier", controllers.SubmitChecklist(services.SubsetSupplier))

	checklist := router.Group("/checklist")
	{
		checklist.GET("/:id", controllers.ShowChecklist)
		checklist.GET("/:id/exportar", controllers.ExportChecklist)
	}

	// Dashboards
	router.GET("/dashboard", controllers.Dashboard)
	router.GET("/dashboard_status", controllers.StatusDashboard)
	router.GET("/dashboard_equipamentos", controllers.EquipmentDashboard)
	router.GET("/detalhes/:tipo", controllers.TypeDetail)
	router.GET("/detalhes_status/:status", controllers.StatusDetail)

	// History
	router.GET("/historico", controllers.StatusHistory)
	router.GET("/historico/exportar", controllers.ExportStatusHistory)
	router.GET("/historico_checklist", controllers.ChecklistHistory)

	// Status updates
	router.GET("/status", controllers.StatusPage)
	router.POST("/status", controllers.UpdateStatus)
	router.GET("/atualizar_status", controllers.UpdateStatusPage)
	router.POST("/atualizar_status", controllers.UpdateStatus)

	// Reports
	router.GET("/gerar_pdf", controllers.ChecklistPDF(services.LayoutClassic))
	router.GET("/gerar_pdf_moderno", controllers.ChecklistPDF(services.LayoutModern))
	router.GET("/gerar_pdf/link", controllers.ChecklistPDFLink)
	router.GET("/relatorio/:token", controllers.SharedChecklistPDF)

	// Operations
	router.GET("/health", controllers.Health)
	monitor.RegisterLogsRoute(router, config.LogFilePath(), cfg.LogsTokenHash)
	monitor.RegisterMonitorPage(router, cfg.LogsTokenHash)

	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Página não encontrada")
	})
}
