package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/middleware"
	"energy-center-checklist/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func facilityLocation() *time.Location {
	return config.Cfg.FacilityLocation()
}

// parseID reads a positive integer id. ok is false when raw is empty or not
// a positive integer.
func parseID(raw string) (uint, bool) {
	id64, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

// respondError maps service errors onto plain-text responses.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrEquipmentNotFound),
		errors.Is(err, services.ErrEquipmentTypeNotFound),
		errors.Is(err, services.ErrReportLinkDisabled):
		c.String(http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrInvalidStatus):
		c.String(http.StatusBadRequest, "Status inválido")
	default:
		middleware.Logger(c).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Erro interno")
	}
}

func render(c *gin.Context, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	c.HTML(http.StatusOK, page, data)
}
