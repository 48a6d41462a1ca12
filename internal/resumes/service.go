package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/shared/storage/object"
	"findmydreamjobs/internal/shared/telemetry"
)

// Backend is the subset of the REST client used for resumes.
type Backend interface {
	ResumesByUser(ctx context.Context, userID int64) ([]backend.Resume, error)
	Resume(ctx context.Context, resumeID int64) (backend.Resume, error)
	UploadResume(ctx context.Context, userID int64, resumeName, fileName string, file io.Reader) (backend.UploadResult, error)
	DownloadResume(ctx context.Context, resumeID int64) (backend.Download, error)
	ApproveResume(ctx context.Context, resumeID int64) (backend.Message, error)
	ATSScore(ctx context.Context, resumeID int64) (backend.ATSScore, error)
}

type Service struct {
	Backend Backend
	Archive ArchiveRepo
	Store   object.Store
	now     func() time.Time
}

func NewService(b Backend, archive ArchiveRepo, store object.Store) *Service {
	return &Service{Backend: b, Archive: archive, Store: store, now: time.Now}
}

// UploadInput carries one resume upload. UserID is the session user id and
// BackendUserID its numeric form.
type UploadInput struct {
	UserID        string
	BackendUserID int64
	ResumeName    string
	FileName      string
	Data          []byte
}

type UploadOutcome struct {
	ResumeID int64
	Message  string
	Pages    int
	Archived bool
}

func (s *Service) List(ctx context.Context, backendUserID int64) ([]backend.Resume, error) {
	return s.Backend.ResumesByUser(ctx, backendUserID)
}

func (s *Service) Get(ctx context.Context, resumeID int64) (backend.Resume, error) {
	if resumeID <= 0 {
		return backend.Resume{}, ErrInvalidInput
	}
	return s.Backend.Resume(ctx, resumeID)
}

// Upload validates the file, sends it to the backend and archives a copy.
// Archive failures are logged; the backend copy is authoritative.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadOutcome, error) {
	info, err := Inspect(in.FileName, in.Data)
	if err != nil {
		return UploadOutcome{}, err
	}

	res, err := s.Backend.UploadResume(ctx, in.BackendUserID, strings.TrimSpace(in.ResumeName), in.FileName, bytes.NewReader(in.Data))
	if err != nil {
		if backend.StatusOf(err) == 409 {
			return UploadOutcome{}, ErrDuplicate
		}
		return UploadOutcome{}, err
	}
	if strings.EqualFold(res.Status, "duplicate") {
		return UploadOutcome{}, ErrDuplicate
	}

	out := UploadOutcome{ResumeID: res.ResumeID, Message: res.Message, Pages: info.Pages}
	if err := s.archive(ctx, in, info, res.ResumeID); err != nil {
		telemetry.Warn("resumes.archive_failed", map[string]any{
			"user_id":   in.UserID,
			"resume_id": res.ResumeID,
			"error":     err.Error(),
		})
	} else if s.Store != nil && s.Archive != nil {
		out.Archived = true
	}
	return out, nil
}

func (s *Service) archive(ctx context.Context, in UploadInput, info FileInfo, resumeID int64) error {
	if s.Store == nil || s.Archive == nil {
		return nil
	}
	obj, err := s.Store.Put(ctx, in.UserID, in.FileName, info.MimeType, bytes.NewReader(in.Data))
	if err != nil {
		return fmt.Errorf("store put: %w", err)
	}
	err = s.Archive.Create(ctx, Upload{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		ResumeID:   resumeID,
		FileName:   in.FileName,
		MimeType:   info.MimeType,
		SizeBytes:  obj.Size,
		StorageKey: obj.Key,
		Pages:      info.Pages,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		_ = s.Store.Delete(ctx, obj.Key)
		return fmt.Errorf("archive create: %w", err)
	}
	return nil
}

// File is a resume ready to be streamed to the browser.
type File struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
	Disposition string
	Length      int64
	Archived    bool
}

// Download serves the archived original when one exists, else proxies the
// backend's copy.
func (s *Service) Download(ctx context.Context, userID string, resumeID int64) (File, error) {
	if resumeID <= 0 {
		return File{}, ErrInvalidInput
	}
	if s.Archive != nil && s.Store != nil {
		up, err := s.Archive.GetByResume(ctx, userID, resumeID)
		switch {
		case err == nil:
			body, openErr := s.Store.Open(ctx, up.StorageKey)
			if openErr == nil {
				return File{
					Body:        body,
					FileName:    up.FileName,
					ContentType: up.MimeType,
					Length:      up.SizeBytes,
					Archived:    true,
				}, nil
			}
			if !errors.Is(openErr, object.ErrNotFound) {
				return File{}, openErr
			}
		case !errors.Is(err, ErrNotFound):
			return File{}, err
		}
	}

	dl, err := s.Backend.DownloadResume(ctx, resumeID)
	if err != nil {
		return File{}, err
	}
	ct := dl.ContentType
	if ct == "" {
		ct = mimeText
	}
	return File{
		Body:        dl.Body,
		FileName:    fmt.Sprintf("resume_%d.txt", resumeID),
		ContentType: ct,
		Disposition: dl.Disposition,
		Length:      dl.Length,
	}, nil
}

func (s *Service) Approve(ctx context.Context, resumeID int64) (backend.Message, error) {
	if resumeID <= 0 {
		return backend.Message{}, ErrInvalidInput
	}
	return s.Backend.ApproveResume(ctx, resumeID)
}

func (s *Service) ATSScore(ctx context.Context, resumeID int64) (backend.ATSScore, error) {
	if resumeID <= 0 {
		return backend.ATSScore{}, ErrInvalidInput
	}
	return s.Backend.ATSScore(ctx, resumeID)
}

// Archived lists the local upload records for a user.
func (s *Service) Archived(ctx context.Context, userID string) ([]Upload, error) {
	if s.Archive == nil {
		return []Upload{}, nil
	}
	return s.Archive.ListByUser(ctx, userID)
}
