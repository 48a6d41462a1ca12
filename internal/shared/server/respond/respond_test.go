package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeUpstream struct {
	status int
	detail string
}

func (f fakeUpstream) Error() string      { return fmt.Sprintf("backend %d: %s", f.status, f.detail) }
func (f fakeUpstream) StatusCode() int    { return f.status }
func (f fakeUpstream) DetailText() string { return f.detail }

func TestUpstreamMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "detail passed through",
			err:         fakeUpstream{status: 404, detail: "Resume not found."},
			wantStatus:  http.StatusNotFound,
			wantCode:    "not_found",
			wantMessage: "❌ Resume not found.",
		},
		{
			name:        "fallback when detail empty",
			err:         fakeUpstream{status: 400},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "bad_request",
			wantMessage: "❌ Failed to fetch ATS score.",
		},
		{
			name:        "server error becomes bad gateway",
			err:         fmt.Errorf("wrapped: %w", fakeUpstream{status: 500, detail: "boom"}),
			wantStatus:  http.StatusBadGateway,
			wantCode:    "backend_error",
			wantMessage: "❌ boom",
		},
		{
			name:        "network failure",
			err:         fakeUpstream{status: 0},
			wantStatus:  http.StatusBadGateway,
			wantCode:    "backend_unavailable",
			wantMessage: NetworkErrorMessage,
		},
		{
			name:        "plain error",
			err:         errors.New("unexpected"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "internal_error",
			wantMessage: "❌ Failed to fetch ATS score.",
		},
		{
			name:        "client canceled",
			err:         context.Canceled,
			wantStatus:  statusClientClosed,
			wantCode:    "client_closed",
			wantMessage: "request canceled",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(resp)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/resumes/1/ats-score", nil)

			Upstream(c, tt.err, "Failed to fetch ATS score.")

			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.Code)
			}
			var payload ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, payload.Error.Code)
			}
			if payload.Error.Message != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, payload.Error.Message)
			}
		})
	}
}

func TestMessageKeepsExistingMark(t *testing.T) {
	if got := Message(fakeUpstream{status: 400, detail: "⚠️ already marked"}, "x"); got != "⚠️ already marked" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(errors.New("x"), "Failed to update status."); got != "❌ Failed to update status." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestToastMergesPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)

	Toast(c, http.StatusCreated, "🎉 Application submitted!", gin.H{"application_id": 7})

	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["toast"] != "🎉 Application submitted!" || payload["application_id"] != float64(7) {
		t.Fatalf("unexpected payload %v", payload)
	}
}
