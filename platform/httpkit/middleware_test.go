package httpkit

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadportal/platform/apperr"
	"leadportal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		if c.Request.Context().Value(logger.RequestIDKey) == nil {
			t.Errorf("expected request id on request context")
		}
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Fatalf("expected generated uuid request id, got %q", rec.Header().Get(HeaderRequestID))
	}
}

func TestRequestIDKeepsValidInboundID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, inbound)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Header().Get(HeaderRequestID) != inbound {
		t.Fatalf("expected inbound id %q, got %q", inbound, rec.Header().Get(HeaderRequestID))
	}
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	limiter := NewPerMinuteLimiter(1, 2, logger.Discard())
	engine := gin.New()
	engine.POST("/", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent {
		t.Fatalf("expected first two requests allowed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request limited, got %d", codes[2])
	}
}

func TestRateLimitCustomResponse(t *testing.T) {
	limiter := NewPerMinuteLimiter(1, 1, nil).OnLimit(func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, "slow down")
	})
	engine := gin.New()
	engine.POST("/", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusTooManyRequests || rec.Body.String() != "slow down" {
		t.Fatalf("expected custom 429 body, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandleErrorMapsKinds(t *testing.T) {
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		HandleError(c, apperr.Rejected("lead service did not apply the change"))
	})
	engine.GET("/plain", func(c *gin.Context) {
		HandleError(c, errors.New("boom"))
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRequestLoggerLogsCauseOfServerErrors(t *testing.T) {
	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(RequestLogger(logger.NewWithWriter("production", &buf)))
	engine.GET("/fail", func(c *gin.Context) {
		HandleError(c, apperr.Unavailable("lead service unreachable", errors.New("connection refused")))
	})
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if strings.Contains(buf.String(), "http_error") {
		t.Fatalf("expected no error log for a 204, got %s", buf.String())
	}

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	out := buf.String()
	if !strings.Contains(out, "http_error") || !strings.Contains(out, "connection refused") {
		t.Fatalf("expected error log with cause, got %s", out)
	}
}

func TestStatusAndMessageForErrors(t *testing.T) {
	if StatusFor(nil) != http.StatusOK || ErrorMessage(nil) != "" {
		t.Fatalf("expected nil error to map to 200 and no message")
	}
	wrapped := fmt.Errorf("submit: %w", apperr.Validation("lead form is invalid").WithDetails(map[string]string{"phone": "bad"}))
	if StatusFor(wrapped) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", StatusFor(wrapped))
	}
	if ErrorMessage(wrapped) != "lead form is invalid" {
		t.Fatalf("expected apperr message, got %q", ErrorMessage(wrapped))
	}
	if d, ok := ErrorDetails(wrapped).(map[string]string); !ok || d["phone"] != "bad" {
		t.Fatalf("expected details to be kept, got %v", ErrorDetails(wrapped))
	}
	if ErrorMessage(errors.New("dial tcp 10.0.0.1")) != "internal error" {
		t.Fatalf("expected untyped error text to be hidden")
	}
}
