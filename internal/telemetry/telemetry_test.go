package telemetry_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

// The middleware must serve requests before Init runs, as it does in tests
// and in any process that skips tracing setup.
func TestTracingMiddlewareWithoutInit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery(), telemetry.TracingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "pong" {
		t.Fatalf("body = %q, want pong", w.Body.String())
	}
}
