package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deepfakebank/transfer-authorization/internal/interfaces"
	"github.com/deepfakebank/transfer-authorization/internal/middleware"
	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

type TransactionHandler struct {
	accounts     interfaces.AccountRepository
	transactions interfaces.TransactionRepository
}

func NewTransactionHandler(accounts interfaces.AccountRepository, transactions interfaces.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{accounts: accounts, transactions: transactions}
}

func (h *TransactionHandler) History(c *gin.Context) {
	account, err := h.accounts.GetByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	list, err := h.transactions.ListByAccount(c.Request.Context(), account.ID)
	if err != nil {
		telemetry.Logger.Error("failed to list transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
