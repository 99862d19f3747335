package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deepfakebank/transfer-authorization/internal/handlers"
	"github.com/deepfakebank/transfer-authorization/internal/middleware"
	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Transfer    *handlers.TransferHandler
	Transaction *handlers.TransactionHandler
	Alert       *handlers.AlertHandler
	Upload      *handlers.UploadHandler
}

func NewRouter(h Handlers, jwtSecret []byte) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "transfer-authorization"})
	})

	r.POST("/api/auth/register", h.Auth.Register)
	r.POST("/api/auth/login", h.Auth.Login)
	r.POST("/api/upload", h.Upload.Upload)

	authed := r.Group("/api", middleware.RequireAuth(jwtSecret))
	authed.POST("/transfer", h.Transfer.Transfer)
	authed.GET("/transactions", h.Transaction.History)
	authed.GET("/alerts", h.Alert.List)
	authed.POST("/alerts/:id/read", h.Alert.MarkRead)

	return r
}
