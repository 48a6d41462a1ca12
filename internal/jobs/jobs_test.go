package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/shared/server/middleware"
)

func newServer(t *testing.T, mux *http.ServeMux) (*gin.Engine, *Service, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	calls := 0
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)

	svc := NewService(backend.New(api.URL, time.Second), NewMemoryRepo())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, middleware.Identity{SessionID: "s", UserID: "7"})
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc, &calls
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAnalyze(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/parse-job-description", func(w http.ResponseWriter, r *http.Request) {
		var req backend.ParseJobRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.UserID != 7 || req.JobDescription != "Senior Go engineer" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"job_id":11,"job_title":"Senior Go engineer","company_name":"Acme"}`))
	})
	r, _, calls := newServer(t, mux)

	resp := send(r, http.MethodPost, "/api/jobs/analyze", `{"job_link":"  ","job_description":""}`)
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), msgNeedJob) {
		t.Fatalf("expected validation error, got %d %s", resp.Code, resp.Body.String())
	}
	if *calls != 0 {
		t.Fatalf("validation failure must not call the backend")
	}

	resp = send(r, http.MethodPost, "/api/jobs/analyze", `{"job_description":"Senior Go engineer"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &payload)
	if payload["toast"] != msgParsed || payload["job_id"] != float64(11) {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestListScopes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})
	mux.HandleFunc("/jobs/by-user/7", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r, _, _ := newServer(t, mux)

	tests := []struct {
		query      string
		wantStatus int
		wantTotal  float64
	}{
		{"?scope=all", http.StatusOK, 2},
		{"", http.StatusOK, 0},
		{"?scope=mine", http.StatusOK, 0},
		{"?scope=other", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := send(r, http.MethodGet, "/api/jobs"+tt.query, "")
			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var payload struct {
				Total float64 `json:"total"`
			}
			_ = json.Unmarshal(resp.Body.Bytes(), &payload)
			if payload.Total != tt.wantTotal {
				t.Fatalf("expected total %v, got %v", tt.wantTotal, payload.Total)
			}
		})
	}
}

func TestSearchQuery(t *testing.T) {
	tests := []struct{ keywords, location, want string }{
		{"go developer", "", "go developer"},
		{" go developer ", " Toronto ", "go developer in Toronto"},
	}
	for _, tt := range tests {
		if got := SearchQuery(tt.keywords, tt.location); got != tt.want {
			t.Fatalf("SearchQuery(%q,%q) = %q, want %q", tt.keywords, tt.location, got, tt.want)
		}
	}
}

func TestBoardFlow(t *testing.T) {
	var gotQuery string
	var analyzed backend.AnalyzeSearchedJobRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/search-jobs", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"job_title":"Go Dev","employer_name":"Acme","redirect_url":"https://jobs/1","description":"Build APIs"},
			{"job_title":"SRE","employer_name":"Beta","redirect_url":"https://jobs/2"}]}`))
	})
	mux.HandleFunc("/analyze-searched-job", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&analyzed)
		_, _ = w.Write([]byte(`{"job_id":99}`))
	})
	r, _, _ := newServer(t, mux)

	resp := send(r, http.MethodPost, "/api/jobs/board/saved", `{"redirect_url":"https://jobs/1","job_title":"Go Dev","employer_name":"Acme"}`)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), msgSaved) {
		t.Fatalf("save: %d %s", resp.Code, resp.Body.String())
	}
	resp = send(r, http.MethodPost, "/api/jobs/board/analyzed", `{"redirect_url":"https://jobs/1","description":"Build APIs"}`)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), msgAnalyzedSaved) {
		t.Fatalf("analyze: %d %s", resp.Code, resp.Body.String())
	}
	if analyzed.JobTitle != "N/A" || analyzed.UserID != 7 || analyzed.JobLink != "https://jobs/1" {
		t.Fatalf("unexpected analyze request %+v", analyzed)
	}
	resp = send(r, http.MethodPost, "/api/jobs/board/applied", `{"redirect_url":"https://jobs/2"}`)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"open_url":"https://jobs/2"`) {
		t.Fatalf("apply: %d %s", resp.Code, resp.Body.String())
	}
	resp = send(r, http.MethodPost, "/api/jobs/board/starred", `{"redirect_url":"https://jobs/2"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mark, got %d", resp.Code)
	}

	resp = send(r, http.MethodGet, "/api/jobs/search?query=go+dev&location=Toronto", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("search: %d %s", resp.Code, resp.Body.String())
	}
	if gotQuery != "go dev in Toronto" {
		t.Fatalf("unexpected backend query %q", gotQuery)
	}
	var search struct {
		Results []SearchHit `json:"results"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &search)
	if len(search.Results) != 2 || !search.Results[0].Saved || !search.Results[0].Analyzed || search.Results[0].Applied || !search.Results[1].Applied {
		t.Fatalf("unexpected marks %+v", search.Results)
	}

	resp = send(r, http.MethodGet, "/api/jobs/board?tab=saved", "")
	var view BoardView
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	want := map[string]int{"all": 2, "saved": 1, "analyzed": 1, "applied": 1, "new": 0}
	for k, v := range want {
		if view.Counts[k] != v {
			t.Fatalf("count %s: expected %d, got %d (%v)", k, v, view.Counts[k], view.Counts)
		}
	}
	if len(view.Jobs) != 1 || view.Jobs[0].Title != "Go Dev" {
		t.Fatalf("unexpected saved tab %+v", view.Jobs)
	}
}

func TestSearchRequiresKeywords(t *testing.T) {
	r, _, calls := newServer(t, http.NewServeMux())
	resp := send(r, http.MethodGet, "/api/jobs/search?location=Toronto", "")
	if resp.Code != http.StatusBadRequest || *calls != 0 {
		t.Fatalf("expected 400 without backend call, got %d calls=%d", resp.Code, *calls)
	}
}

func TestPGRepoCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO job_marks")).
		WithArgs("7", "https://jobs/1", "saved", nil, "Go Dev", nil, "https://jobs/1", created).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.Add(context.Background(), Mark{UserID: "7", JobKey: "https://jobs/1", Kind: MarkSaved, Title: "Go Dev", JobLink: "https://jobs/1", CreatedAt: created}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY mark")).
		WithArgs("7").
		WillReturnRows(sqlmock.NewRows([]string{"mark", "count"}).AddRow("saved", 3).AddRow("applied", 1))
	counts, err := repo.Counts(context.Background(), "7")
	if err != nil || counts[MarkSaved] != 3 || counts[MarkApplied] != 1 {
		t.Fatalf("Counts: %v err=%v", counts, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("AND mark = $2")).
		WithArgs("7", "saved").
		WillReturnRows(sqlmock.NewRows([]string{"job_key", "mark", "job_id", "title", "company", "job_link", "created_at"}).
			AddRow("https://jobs/1", "saved", nil, "Go Dev", nil, "https://jobs/1", created))
	marks, err := repo.List(context.Background(), "7", MarkSaved)
	if err != nil || len(marks) != 1 || marks[0].Title != "Go Dev" || marks[0].Company != "" {
		t.Fatalf("List: %+v err=%v", marks, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
