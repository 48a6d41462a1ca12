package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/jdi"
	"findmydreamjobs/internal/services/health"
	"findmydreamjobs/internal/session"
	"findmydreamjobs/internal/shared/auth"
	"findmydreamjobs/internal/shared/config"
	"findmydreamjobs/internal/shared/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.Configure("router-test-secret", false)
}

func testRouter(t *testing.T, hs *health.Service) (*gin.Engine, *session.Service) {
	t.Helper()
	sessions := session.NewService(session.NewMemoryRepo(), time.Hour)
	r := NewRouter(RouterDeps{
		Config:         config.Config{Env: "test"},
		Health:         hs,
		Sessions:       sessions,
		SessionHandler: session.NewHandler(sessions, false),
		JDIHandler:     jdi.NewHandler(jdi.NewService(nil, jdi.NewMemoryStore(), nil)),
	})
	return r, sessions
}

func TestHealthz(t *testing.T) {
	down := func(context.Context) error { return errors.New("down") }
	tests := []struct {
		name string
		hs   *health.Service
		want int
	}{
		{"default", nil, http.StatusOK},
		{"optional failing", health.NewService().Observe("backend", down), http.StatusOK},
		{"critical failing", health.NewService().Require("database", down), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := testRouter(t, tt.hs)
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestProtectedAPIRequiresSession(t *testing.T) {
	r, _ := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/jdi/unread-count", nil)
	req.Header.Set("Accept", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["redirect"] != "/login" || body["toast"] != middleware.WelcomeToast {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAnonymousAPITrafficIsRateLimited(t *testing.T) {
	frozen := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := NewRouter(RouterDeps{
		Config:      config.Config{Env: "test"},
		JDIHandler:  jdi.NewHandler(jdi.NewService(nil, jdi.NewMemoryStore(), nil)),
		RateLimiter: middleware.NewRateLimiter(func() time.Time { return frozen }),
	})
	burst := DefaultRateLimits()[rateGroupAPI].Burst

	var last *httptest.ResponseRecorder
	for i := 0; i <= burst; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/jdi/unread-count", nil)
		req.Header.Set("Accept", "application/json")
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
		if i < burst && last.Code != http.StatusUnauthorized {
			t.Fatalf("request %d: expected 401, got %d", i+1, last.Code)
		}
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", last.Code)
	}
}

func TestMetricsAccess(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Config
		header string
		want   int
	}{
		{"dev without token", config.Config{Env: "test"}, "", http.StatusOK},
		{"token missing", config.Config{Env: "test", MetricsToken: "s3cret"}, "", http.StatusUnauthorized},
		{"token wrong", config.Config{Env: "test", MetricsToken: "s3cret"}, "Bearer nope", http.StatusUnauthorized},
		{"token given", config.Config{Env: "production", MetricsToken: "s3cret"}, "Bearer s3cret", http.StatusOK},
		{"production without token", config.Config{Env: "production"}, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(RouterDeps{Config: tt.cfg})
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
		})
	}
}

func TestSessionCookieAuthenticates(t *testing.T) {
	r, sessions := testRouter(t, nil)
	_, token, err := sessions.Start(context.Background(), session.StartInput{UserID: "7", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, path := range []string{"/api/auth/session", "/dashboard"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept", "application/json")
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestRateGroupFor(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/auth/login", rateGroupAuth},
		{http.MethodPost, "/api/auth/logout", rateGroupAPI},
		{http.MethodGet, "/api/auth/session", rateGroupAPI},
		{http.MethodPost, "/api/resumes", rateGroupUpload},
		{http.MethodGet, "/api/resumes", rateGroupAPI},
		{http.MethodPost, "/api/jdi/run", rateGroupScan},
		{http.MethodGet, "/api/jdi/candidates", rateGroupAPI},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(tt.method, tt.path, nil)
		if got := rateGroupFor(c); got != tt.want {
			t.Fatalf("%s %s: expected %s, got %s", tt.method, tt.path, tt.want, got)
		}
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{
		"":      ":3000",
		"8080":  ":8080",
		":9000": ":9000",
	}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
