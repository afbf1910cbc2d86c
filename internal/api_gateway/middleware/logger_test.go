package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/personal-finance-ledger/internal/domain/shared"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("LogsRequestDetails", func(t *testing.T) {
		var logBuffer bytes.Buffer

		router := gin.New()
		router.Use(CorrelationID())
		router.Use(func(c *gin.Context) {
			c.Set(IdentityKey, shared.Identity("user-1"))
			c.Next()
		})
		router.Use(Logger(newBufferLogger(&logBuffer)))
		router.GET("/test_log", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		req, _ := http.NewRequest(http.MethodGet, "/test_log?month=2024-06", nil)
		req.Header.Set("User-Agent", "test-agent")
		testCorrelationID := uuid.New().String()
		req.Header.Set(CorrelationIDHeader, testCorrelationID)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		logOutput := logBuffer.String()
		assert.Contains(t, logOutput, `"level":"INFO"`)
		assert.Contains(t, logOutput, `"msg":"HTTP request"`)
		assert.Contains(t, logOutput, `"method":"GET"`)
		assert.Contains(t, logOutput, `"path":"/test_log?month=2024-06"`)
		assert.Contains(t, logOutput, `"status":200`)
		assert.Contains(t, logOutput, `"latency":`)
		assert.Contains(t, logOutput, `"client_ip":`)
		assert.Contains(t, logOutput, `"user_agent":"test-agent"`)
		assert.Contains(t, logOutput, `"correlation_id":"`+testCorrelationID+`"`)
		assert.Contains(t, logOutput, `"identity":"user-1"`)
	})

	t.Run("AnonymousRequestHasNoIdentity", func(t *testing.T) {
		var logBuffer bytes.Buffer

		router := gin.New()
		router.Use(Logger(newBufferLogger(&logBuffer)))
		router.POST("/another_log", func(c *gin.Context) {
			c.String(http.StatusCreated, "Created")
		})

		req, _ := http.NewRequest(http.MethodPost, "/another_log", strings.NewReader("body"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		logOutput := logBuffer.String()
		assert.Contains(t, logOutput, `"status":201`)
		assert.NotContains(t, logOutput, `"identity"`)
		assert.NotContains(t, logOutput, `"correlation_id"`)
	})

	t.Run("LevelFollowsStatus", func(t *testing.T) {
		tests := []struct {
			status int
			level  string
		}{
			{http.StatusBadRequest, `"level":"WARN"`},
			{http.StatusNotFound, `"level":"WARN"`},
			{http.StatusBadGateway, `"level":"ERROR"`},
		}

		for _, tc := range tests {
			var logBuffer bytes.Buffer
			router := gin.New()
			router.Use(Logger(newBufferLogger(&logBuffer)))
			router.GET("/status", func(c *gin.Context) {
				c.Status(tc.status)
			})

			req, _ := http.NewRequest(http.MethodGet, "/status", nil)
			router.ServeHTTP(httptest.NewRecorder(), req)

			assert.Contains(t, logBuffer.String(), tc.level, "status %d", tc.status)
		}
	})
}
