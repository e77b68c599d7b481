package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrBatchNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"unique", apperrors.ErrStudentEmailExists, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists},
		{"validation", apperrors.NewValidationError("dob", "dob is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad request", apperrors.NewBadRequestError("file is required"), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"other", fmt.Errorf("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Error == nil || body.Error.Code != tt.code {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestHandleAPIErrorCarriesField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleAPIError(c, apperrors.NewValidationError("dob", "dob must be a date formatted YYYY-MM-DD"))

	if !strings.Contains(w.Body.String(), `"field":"dob"`) {
		t.Fatalf("expected field in body, got %s", w.Body.String())
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected the client request id to be echoed, got %q", got)
	}
}

func TestRequestLoggerTagsHandlerLogs(t *testing.T) {
	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: logger.InfoLevel, Output: &buf})
	t.Cleanup(func() { logger.Configure(logger.Config{Level: logger.InfoLevel, Pretty: true}) })

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/boom", func(c *gin.Context) { HandleAPIError(c, errors.New("disk full")) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	seen := map[string]bool{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]interface{}
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("unmarshal %s: %v", line, err)
		}
		if entry["requestID"] != "req-42" {
			t.Fatalf("log line without request id: %s", line)
		}
		seen[fmt.Sprint(entry["message"])] = true
	}
	if !seen["Unhandled error"] || !seen["Request handled"] {
		t.Fatalf("expected handler and access log lines, got %s", buf.String())
	}
}

func TestMetricsCountsRoutes(t *testing.T) {
	metrics := NewMetrics()
	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", metrics.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/7", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `collegerecords_http_requests_total{method="GET",route="/students/:id",status="204"} 1`
	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("metrics output missing %q", want)
	}
}
