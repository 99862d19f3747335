package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deepfakebank/transfer-authorization/internal/middleware"
	"github.com/deepfakebank/transfer-authorization/internal/models"
	"github.com/deepfakebank/transfer-authorization/internal/service"
	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

type TransferHandler struct {
	auth       *service.AuthService
	authorizer *service.Authorizer
}

func NewTransferHandler(auth *service.AuthService, authorizer *service.Authorizer) *TransferHandler {
	return &TransferHandler{auth: auth, authorizer: authorizer}
}

// Transfer runs the authorization pipeline for the authenticated user.
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.auth.SessionFor(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
		return
	}

	tx, err := h.authorizer.Authorize(c.Request.Context(), session, &req)
	if err != nil {
		h.writeAuthorizeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransferResponse{
		Transaction: tx,
		Message:     "Transfer successful",
	})
}

func (h *TransferHandler) writeAuthorizeError(c *gin.Context, err error) {
	var deepfakeErr *models.DeepfakeError
	switch {
	case errors.As(err, &deepfakeErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error":            "transfer blocked: deepfake detected",
			"error_code":       "DEEPFAKE_DETECTED",
			"transaction_code": deepfakeErr.TransactionCode,
		})
	case errors.Is(err, models.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidDestination),
		errors.Is(err, models.ErrAmountTooLow),
		errors.Is(err, models.ErrInvalidDescription):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrCaptureUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		telemetry.Logger.Error("transfer authorization failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transfer failed"})
	}
}
