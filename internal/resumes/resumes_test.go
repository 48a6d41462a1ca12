package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
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
	"findmydreamjobs/internal/shared/storage/object/local"
)

func docxBytes(t *testing.T, withDocument bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	name := "notes.txt"
	if withDocument {
		name = "word/document.xml"
	}
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<w:document/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		wantErr  error
		wantMime string
	}{
		{name: "text", fileName: "cv.TXT", data: []byte("Go engineer"), wantMime: mimeText},
		{name: "docx", fileName: "cv.docx", data: docxBytes(t, true), wantMime: mimeDOCX},
		{name: "zip posing as docx", fileName: "cv.docx", data: docxBytes(t, false), wantErr: ErrUnreadable},
		{name: "garbage pdf", fileName: "cv.pdf", data: []byte("not a pdf"), wantErr: ErrUnreadable},
		{name: "unsupported", fileName: "cv.png", data: []byte{0x89, 'P', 'N', 'G'}, wantErr: ErrUnsupportedType},
		{name: "empty", fileName: "cv.txt", data: nil, wantErr: ErrUnreadable},
		{name: "too large", fileName: "cv.txt", data: make([]byte, MaxUploadSize+1), wantErr: ErrTooLarge},
		{name: "invalid utf8", fileName: "cv.txt", data: []byte{0xff, 0xfe, 0xfd}, wantErr: ErrUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Inspect(tt.fileName, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.MimeType != tt.wantMime {
				t.Fatalf("expected mime %q, got %q", tt.wantMime, info.MimeType)
			}
		})
	}
}

type fakeBackend struct {
	uploadStatus string
	uploadErr    error
	uploads      int
	downloaded   int
}

func (f *fakeBackend) ResumesByUser(ctx context.Context, userID int64) ([]backend.Resume, error) {
	return []backend.Resume{{ID: 1, UserID: userID, ResumeName: "Main"}}, nil
}

func (f *fakeBackend) Resume(ctx context.Context, resumeID int64) (backend.Resume, error) {
	if resumeID != 1 {
		return backend.Resume{}, &backend.APIError{Status: 404, Detail: "Resume not found"}
	}
	return backend.Resume{ID: 1, ResumeName: "Main"}, nil
}

func (f *fakeBackend) UploadResume(ctx context.Context, userID int64, resumeName, fileName string, file io.Reader) (backend.UploadResult, error) {
	f.uploads++
	if f.uploadErr != nil {
		return backend.UploadResult{}, f.uploadErr
	}
	return backend.UploadResult{ResumeID: 77, Status: f.uploadStatus}, nil
}

func (f *fakeBackend) DownloadResume(ctx context.Context, resumeID int64) (backend.Download, error) {
	f.downloaded++
	return backend.Download{Body: io.NopCloser(strings.NewReader("parsed text")), ContentType: "text/plain", Length: 11}, nil
}

func (f *fakeBackend) ApproveResume(ctx context.Context, resumeID int64) (backend.Message, error) {
	return backend.Message{}, nil
}

func (f *fakeBackend) ATSScore(ctx context.Context, resumeID int64) (backend.ATSScore, error) {
	score := 81.5
	return backend.ATSScore{ResumeID: resumeID, ATSScoreInitial: &score}, nil
}

func newRouter(t *testing.T, fb *fakeBackend) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(fb, NewMemoryRepo(), local.New(t.TempDir()))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, middleware.Identity{SessionID: "s1", UserID: "42", Email: "a@b.co"})
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func multipartBody(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("resume_name", "Main"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = part.Write(content)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func doUpload(r *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/resumes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestUploadArchivesAndDownloads(t *testing.T) {
	fb := &fakeBackend{}
	r, svc := newRouter(t, fb)

	body, ct := multipartBody(t, "cv.txt", []byte("Go engineer with ten years of experience"))
	resp := doUpload(r, body, ct)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["message"] != msgUploaded || payload["toast"] != msgUploaded || payload["archived"] != true {
		t.Fatalf("unexpected payload %v", payload)
	}

	uploads, err := svc.Archived(context.Background(), "42")
	if err != nil || len(uploads) != 1 || uploads[0].ResumeID != 77 {
		t.Fatalf("expected one archived upload, got %+v err=%v", uploads, err)
	}

	dl := httptest.NewRecorder()
	r.ServeHTTP(dl, httptest.NewRequest(http.MethodGet, "/api/resumes/77/download", nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", dl.Code)
	}
	if got := dl.Body.String(); got != "Go engineer with ten years of experience" {
		t.Fatalf("expected archived original, got %q", got)
	}
	if !strings.Contains(dl.Header().Get("Content-Disposition"), `filename="cv.txt"`) {
		t.Fatalf("unexpected disposition %q", dl.Header().Get("Content-Disposition"))
	}
	if fb.downloaded != 0 {
		t.Fatalf("archived download must not hit the backend")
	}
}

func TestDownloadProxiesWhenNotArchived(t *testing.T) {
	fb := &fakeBackend{}
	r, _ := newRouter(t, fb)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes/5/download", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "resume_5.txt") {
		t.Fatalf("unexpected disposition %q", resp.Header().Get("Content-Disposition"))
	}
	if resp.Body.String() != "parsed text" || fb.downloaded != 1 {
		t.Fatalf("expected proxied body, got %q", resp.Body.String())
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		content    []byte
		fb         *fakeBackend
		wantStatus int
		wantMsg    string
		wantCalls  int
	}{
		{"no file", "", nil, &fakeBackend{}, http.StatusBadRequest, msgChooseFile, 0},
		{"bad type", "cv.exe", []byte("MZ"), &fakeBackend{}, http.StatusBadRequest, msgUnsupported, 0},
		{"duplicate status", "cv.txt", []byte("hello"), &fakeBackend{uploadStatus: "duplicate"}, http.StatusConflict, msgDuplicate, 1},
		{"duplicate conflict", "cv.txt", []byte("hello"), &fakeBackend{uploadErr: &backend.APIError{Status: 409}}, http.StatusConflict, msgDuplicate, 1},
		{"backend down", "cv.txt", []byte("hello"), &fakeBackend{uploadErr: &backend.APIError{Err: errors.New("dial")}}, http.StatusBadGateway, "❌ Network error. Please try again.", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(t, tt.fb)
			body, ct := multipartBody(t, tt.fileName, tt.content)
			resp := doUpload(r, body, ct)
			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
			var payload struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			_ = json.Unmarshal(resp.Body.Bytes(), &payload)
			if payload.Error.Message != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, payload.Error.Message)
			}
			if tt.fb.uploads != tt.wantCalls {
				t.Fatalf("expected %d backend uploads, got %d", tt.wantCalls, tt.fb.uploads)
			}
		})
	}
}

func TestATSScoreValidatesID(t *testing.T) {
	r, _ := newRouter(t, &fakeBackend{})

	for _, id := range []string{"0", "-3", "abc"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/resumes/"+id+"/ats-score", nil))
		if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "positive number") {
			t.Fatalf("id %q: expected validation error, got %d %s", id, resp.Code, resp.Body.String())
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/resumes/3/ats-score", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ats_score_initial":81.5`) {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestApproveUsesDefaultToast(t *testing.T) {
	r, _ := newRouter(t, &fakeBackend{})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/resumes/1/approve", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), msgApproved) {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestPGRepo(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO resume_uploads")).
		WithArgs("u1", "42", int64(77), "cv.pdf", mimePDF, int64(1200), "resumes/k", 2, created).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.Create(ctx, Upload{
		ID: "u1", UserID: "42", ResumeID: 77, FileName: "cv.pdf", MimeType: mimePDF,
		SizeBytes: 1200, StorageKey: "resumes/k", Pages: 2, CreatedAt: created,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cols := []string{"id", "user_id", "resume_id", "file_name", "mime_type", "size_bytes", "storage_key", "pages", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM resume_uploads")).
		WithArgs("42", int64(77)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "42", int64(77), "cv.pdf", mimePDF, int64(1200), "resumes/k", 2, created))
	got, err := repo.GetByResume(ctx, "42", 77)
	if err != nil || got.StorageKey != "resumes/k" || got.Pages != 2 {
		t.Fatalf("GetByResume: %+v err=%v", got, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM resume_uploads")).
		WithArgs("42", int64(5)).
		WillReturnRows(sqlmock.NewRows(cols))
	if _, err := repo.GetByResume(ctx, "42", 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
