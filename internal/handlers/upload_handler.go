package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deepfakebank/transfer-authorization/internal/biometric"
	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

type UploadHandler struct {
	store *biometric.ArtifactStore
}

func NewUploadHandler(store *biometric.ArtifactStore) *UploadHandler {
	return &UploadHandler{store: store}
}

type uploadRequest struct {
	Image     string `json:"image"`
	Timestamp int64  `json:"timestamp"`
	Filename  string `json:"filename"`
}

// Upload persists a base64-encoded capture image and returns its storage
// reference. The returned path can be passed to a transfer as capture_ref.
func (h *UploadHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" || req.Timestamp == 0 || req.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	saved, err := h.store.Save(req.Image, req.Timestamp, req.Filename)
	if err != nil {
		telemetry.Logger.Error("failed to save capture image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"path":      saved.Path,
		"timestamp": saved.Timestamp,
		"filename":  saved.Filename,
		"size":      saved.Size,
	})
}
