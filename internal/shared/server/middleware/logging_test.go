package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf, slog.LevelInfo)

	resolver := &stubResolver{tokens: map[string]Identity{"tok": {SessionID: "s1", UserID: "42"}}}
	router := gin.New()
	router.Use(RequestID(), Auth(resolver), Logging())
	router.GET("/api/match-score", func(c *gin.Context) {
		c.Set("resumeId", "5")
		c.Set("jobId", "9")
		telemetry.CountCall(c.Request.Context())
		telemetry.CountCall(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/match-score", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "resume_id", "job_id", "duration_ms", "status", "session_state", "backend_calls"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["user_id"] != "42" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["session_state"] != "authenticated" {
		t.Fatalf("unexpected session_state: %v", payload["session_state"])
	}
	if payload["backend_calls"] != float64(2) {
		t.Fatalf("unexpected backend_calls: %v", payload["backend_calls"])
	}
	if payload["request_id"] != resp.Header().Get("X-Request-Id") {
		t.Fatalf("request id mismatch")
	}
}

func TestRequestIDReusesInbound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Body.String() != "abc-123" {
		t.Fatalf("expected inbound id, got %q", resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if len(resp.Body.String()) != 36 {
		t.Fatalf("expected generated uuid, got %q", resp.Body.String())
	}
}

func TestRecoveryReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	telemetry.SetOutput(&buf, slog.LevelInfo)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(buf.String(), `"msg":"panic"`) {
		t.Fatalf("expected panic log, got %s", buf.String())
	}
}
