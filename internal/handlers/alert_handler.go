package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deepfakebank/transfer-authorization/internal/interfaces"
	"github.com/deepfakebank/transfer-authorization/internal/middleware"
	"github.com/deepfakebank/transfer-authorization/internal/models"
	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

type AlertHandler struct {
	alerts interfaces.AlertRepository
}

func NewAlertHandler(alerts interfaces.AlertRepository) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

func (h *AlertHandler) List(c *gin.Context) {
	list, err := h.alerts.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		telemetry.Logger.Error("failed to list alerts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": list})
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	err := h.alerts.MarkRead(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		telemetry.Logger.Error("failed to mark alert read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
