package applications

import (
	"context"
	"errors"
	"strings"

	"findmydreamjobs/internal/backend"
)

var ErrInvalidInput = errors.New("invalid input")

// Backend is the subset of the REST client used for applications.
type Backend interface {
	Applications(ctx context.Context, userID int64) ([]backend.Application, error)
	SubmitApplication(ctx context.Context, req backend.SubmitApplicationRequest) (backend.Message, error)
	UpdateApplicationStatus(ctx context.Context, applicationID int64, status string) (backend.Message, error)
}

type Service struct {
	Backend Backend
}

func NewService(b Backend) *Service {
	return &Service{Backend: b}
}

// Query selects and orders the application list.
type Query struct {
	Statuses []string
	SortKey  string
	SortDir  string
}

// ListResult is a filtered, sorted application list.
type ListResult struct {
	Applications []backend.Application `json:"applications"`
	Total        int                   `json:"total"`
	Filtered     int                   `json:"filtered"`
	Statuses     []string              `json:"statuses"`
	Sort         SortKey               `json:"sort"`
	Dir          string                `json:"dir"`
}

// List validates q before calling the backend.
func (s *Service) List(ctx context.Context, userID int64, q Query) (ListResult, error) {
	selected, err := ParseSelection(q.Statuses)
	if err != nil {
		return ListResult{}, err
	}
	key, dir, err := ParseSort(q.SortKey, q.SortDir)
	if err != nil {
		return ListResult{}, err
	}

	apps, err := s.Backend.Applications(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}
	filtered := Filter(apps, selected)
	Sort(filtered, key, dir)

	statuses := make([]string, 0, len(selected))
	for _, b := range Buckets {
		if selected[b] {
			statuses = append(statuses, b)
		}
	}
	return ListResult{
		Applications: filtered,
		Total:        len(apps),
		Filtered:     len(filtered),
		Statuses:     statuses,
		Sort:         key,
		Dir:          dir,
	}, nil
}

// StatusCount is one bar of the stats chart.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type Stats struct {
	Total    int            `json:"total"`
	ByStatus []StatusCount  `json:"by_status"`
	ByBucket map[string]int `json:"by_bucket"`
}

// Stats counts applications by raw status, in first-seen order, and by
// taxonomy bucket.
func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	apps, err := s.Backend.Applications(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(apps), nil
}

func ComputeStats(apps []backend.Application) Stats {
	out := Stats{Total: len(apps), ByStatus: make([]StatusCount, 0), ByBucket: make(map[string]int, len(Buckets))}
	for _, b := range Buckets {
		out.ByBucket[b] = 0
	}
	index := map[string]int{}
	for _, a := range apps {
		i, ok := index[a.ApplicationStatus]
		if !ok {
			i = len(out.ByStatus)
			index[a.ApplicationStatus] = i
			out.ByStatus = append(out.ByStatus, StatusCount{Status: a.ApplicationStatus})
		}
		out.ByStatus[i].Count++
		out.ByBucket[Bucket(a.ApplicationStatus)]++
	}
	return out
}

// Submit records an application. All three fields are required.
func (s *Service) Submit(ctx context.Context, req backend.SubmitApplicationRequest) (backend.Message, error) {
	req.ApplicationURL = strings.TrimSpace(req.ApplicationURL)
	if req.ResumeID <= 0 || req.JobID <= 0 || req.ApplicationURL == "" {
		return backend.Message{}, ErrInvalidInput
	}
	return s.Backend.SubmitApplication(ctx, req)
}

// UpdateStatus sends a trimmed, non-blank status to the backend.
func (s *Service) UpdateStatus(ctx context.Context, applicationID int64, status string) (backend.Message, error) {
	status = strings.TrimSpace(status)
	if applicationID <= 0 || status == "" {
		return backend.Message{}, ErrInvalidInput
	}
	return s.Backend.UpdateApplicationStatus(ctx, applicationID, status)
}
