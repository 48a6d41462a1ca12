package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/server/middleware"
)

func TestMemoryRepoKeepsKnownFields(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.RecordLogin(ctx, User{ID: "42", Email: "a@b.co", FullName: "Ada", Provider: "google"}); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	if err := svc.RecordLogin(ctx, User{ID: "42", Email: "a@b.co"}); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	user, err := svc.GetByID(ctx, "42")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.FullName != "Ada" {
		t.Fatalf("expected name to survive, got %q", user.FullName)
	}
	if user.Provider != "credentials" {
		t.Fatalf("expected provider default, got %q", user.Provider)
	}
	if user.LastLoginAt.IsZero() {
		t.Fatalf("expected last login to be stamped")
	}
	if _, err := svc.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordLoginValidates(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.RecordLogin(context.Background(), User{ID: "1"}); err == nil {
		t.Fatalf("expected missing email to fail")
	}
	var nilSvc *Service
	if err := nilSvc.RecordLogin(context.Background(), User{ID: "1", Email: "x@y"}); err == nil {
		t.Fatalf("expected nil service to fail")
	}
}

func TestPGRepoUpsertAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}
	login := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("42", "a@b.co", nil, nil, "credentials", login).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Upsert(context.Background(), User{ID: "42", Email: "a@b.co", Provider: "credentials", LastLoginAt: login}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "picture_url", "provider", "last_login_at", "created_at", "updated_at"}).
		AddRow("42", "a@b.co", "Ada", nil, "google", login, login, login)
	mock.ExpectQuery("SELECT id, email, full_name").WithArgs("42").WillReturnRows(rows)
	user, err := repo.GetByID(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.FullName != "Ada" || user.PictureURL != "" || !user.LastLoginAt.Equal(login) {
		t.Fatalf("unexpected user %+v", user)
	}

	mock.ExpectQuery("SELECT id, email, full_name").WithArgs("missing").WillReturnRows(
		sqlmock.NewRows([]string{"id", "email", "full_name", "picture_url", "provider", "last_login_at", "created_at", "updated_at"}))
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo())
	_ = svc.RecordLogin(context.Background(), User{ID: "42", Email: "a@b.co", FullName: "Ada Lovelace", PictureURL: "https://img"})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, middleware.Identity{SessionID: "s", UserID: "42", Email: "a@b.co", Name: "Ada"})
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &payload)
	if payload["fullName"] != "Ada Lovelace" || payload["pictureUrl"] != "https://img" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestMeRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewService(NewMemoryRepo())).RegisterRoutes(router.Group("/api"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
