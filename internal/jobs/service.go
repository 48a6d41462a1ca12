package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"findmydreamjobs/internal/backend"
)

// Backend is the subset of the REST client used for jobs.
type Backend interface {
	ParseJobDescription(ctx context.Context, req backend.ParseJobRequest) (backend.Job, error)
	Job(ctx context.Context, jobID int64) (backend.Job, error)
	UpdateJob(ctx context.Context, jobID int64, update backend.JobUpdate) (backend.Job, error)
	AllJobs(ctx context.Context) ([]backend.Job, error)
	JobsByUser(ctx context.Context, userID int64) ([]backend.Job, error)
	SearchJobs(ctx context.Context, query string) (backend.SearchResponse, error)
	AnalyzeSearchedJob(ctx context.Context, req backend.AnalyzeSearchedJobRequest) (backend.Job, error)
}

type Service struct {
	Backend Backend
	Board   BoardRepo
	now     func() time.Time
}

func NewService(b Backend, board BoardRepo) *Service {
	return &Service{Backend: b, Board: board, now: time.Now}
}

// Analyze stores a job from a link or pasted description. At least one is
// required.
func (s *Service) Analyze(ctx context.Context, userID int64, link, description string) (backend.Job, error) {
	link = strings.TrimSpace(link)
	description = strings.TrimSpace(description)
	if link == "" && description == "" {
		return backend.Job{}, ErrInvalidInput
	}
	return s.Backend.ParseJobDescription(ctx, backend.ParseJobRequest{
		UserID:         userID,
		JobLink:        link,
		JobDescription: description,
	})
}

// List returns every job for scope "all", else the user's own jobs.
func (s *Service) List(ctx context.Context, scope string, userID int64) ([]backend.Job, error) {
	switch scope {
	case "all":
		return s.Backend.AllJobs(ctx)
	case "", "mine":
		return s.Backend.JobsByUser(ctx, userID)
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, scope)
	}
}

func (s *Service) Get(ctx context.Context, jobID int64) (backend.Job, error) {
	return s.Backend.Job(ctx, jobID)
}

func (s *Service) Update(ctx context.Context, jobID int64, update backend.JobUpdate) (backend.Job, error) {
	return s.Backend.UpdateJob(ctx, jobID, update)
}

// SearchHit is a search result annotated with the user's board marks.
type SearchHit struct {
	backend.SearchResult
	JobKey   string `json:"job_key"`
	Saved    bool   `json:"saved"`
	Analyzed bool   `json:"analyzed"`
	Applied  bool   `json:"applied"`
}

// SearchQuery joins keywords and location the way the search backend
// expects: "keywords in location".
func SearchQuery(keywords, location string) string {
	keywords = strings.TrimSpace(keywords)
	location = strings.TrimSpace(location)
	if location == "" {
		return keywords
	}
	return keywords + " in " + location
}

func (s *Service) Search(ctx context.Context, userID, keywords, location string) ([]SearchHit, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, ErrInvalidInput
	}
	res, err := s.Backend.SearchJobs(ctx, SearchQuery(keywords, location))
	if err != nil {
		return nil, err
	}

	marked, err := s.markIndex(ctx, userID)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, 0, len(res.Results))
	for _, r := range res.Results {
		key := r.RedirectURL
		hits = append(hits, SearchHit{
			SearchResult: r,
			JobKey:       key,
			Saved:        marked[MarkSaved][key],
			Analyzed:     marked[MarkAnalyzed][key],
			Applied:      marked[MarkApplied][key],
		})
	}
	return hits, nil
}

func (s *Service) markIndex(ctx context.Context, userID string) (map[MarkKind]map[string]bool, error) {
	out := map[MarkKind]map[string]bool{
		MarkSaved:    {},
		MarkAnalyzed: {},
		MarkApplied:  {},
	}
	marks, err := s.Board.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	for _, m := range marks {
		if set, ok := out[m.Kind]; ok {
			set[m.JobKey] = true
		}
	}
	return out, nil
}

// MarkInput identifies the job being filed. JobID wins over ID, which wins
// over RedirectURL, as the board key.
type MarkInput struct {
	JobID        int64  `json:"job_id"`
	ID           int64  `json:"id"`
	RedirectURL  string `json:"redirect_url"`
	JobTitle     string `json:"job_title"`
	EmployerName string `json:"employer_name"`
	Description  string `json:"description"`
	JobLocation  string `json:"job_location"`
	Salary       string `json:"salary"`
}

func (in MarkInput) key() string {
	switch {
	case in.JobID != 0:
		return strconv.FormatInt(in.JobID, 10)
	case in.ID != 0:
		return strconv.FormatInt(in.ID, 10)
	default:
		return strings.TrimSpace(in.RedirectURL)
	}
}

// MarkJob files a job under kind. Marking as analyzed first stores the job
// with the backend.
func (s *Service) MarkJob(ctx context.Context, userID string, backendUserID int64, kind MarkKind, in MarkInput) (Mark, error) {
	if !kind.Valid() {
		return Mark{}, fmt.Errorf("%w: unknown mark %q", ErrInvalidInput, kind)
	}
	key := in.key()
	if key == "" {
		return Mark{}, fmt.Errorf("%w: job id or link is required", ErrInvalidInput)
	}

	m := Mark{
		UserID:    userID,
		JobKey:    key,
		Kind:      kind,
		JobID:     in.JobID,
		Title:     in.JobTitle,
		Company:   in.EmployerName,
		JobLink:   in.RedirectURL,
		CreatedAt: s.now().UTC(),
	}
	if kind == MarkAnalyzed {
		job, err := s.Backend.AnalyzeSearchedJob(ctx, backend.AnalyzeSearchedJobRequest{
			JobTitle:       orNA(in.JobTitle),
			EmployerName:   orNA(in.EmployerName),
			JobDescription: in.Description,
			JobLocation:    in.JobLocation,
			Salary:         in.Salary,
			JobLink:        in.RedirectURL,
			UserID:         backendUserID,
		})
		if err != nil {
			return Mark{}, err
		}
		if m.JobID == 0 {
			m.JobID = job.Key()
		}
	}
	if err := s.Board.Add(ctx, m); err != nil {
		return Mark{}, err
	}
	return m, nil
}

// BoardView is one tab of the job-search board with counts for every tab.
type BoardView struct {
	Tab    string         `json:"tab"`
	Jobs   []Mark         `json:"jobs"`
	Counts map[string]int `json:"counts"`
}

func (s *Service) BoardTab(ctx context.Context, userID, tab string) (BoardView, error) {
	if tab == "" {
		tab = "all"
	}
	known := false
	for _, t := range Tabs {
		if t == tab {
			known = true
		}
	}
	if !known {
		return BoardView{}, fmt.Errorf("%w: unknown tab %q", ErrInvalidInput, tab)
	}

	marks, err := s.Board.List(ctx, userID, "")
	if err != nil {
		return BoardView{}, err
	}
	counts, err := s.Board.Counts(ctx, userID)
	if err != nil {
		return BoardView{}, err
	}

	view := BoardView{Tab: tab, Jobs: make([]Mark, 0), Counts: map[string]int{"new": 0}}
	seen := map[string]bool{}
	for _, m := range marks {
		switch {
		case tab == "all":
			if !seen[m.JobKey] {
				seen[m.JobKey] = true
				view.Jobs = append(view.Jobs, m)
			}
		case string(m.Kind) == tab:
			view.Jobs = append(view.Jobs, m)
		}
	}
	distinct := map[string]bool{}
	for _, m := range marks {
		distinct[m.JobKey] = true
	}
	view.Counts["all"] = len(distinct)
	for _, k := range []MarkKind{MarkSaved, MarkAnalyzed, MarkApplied} {
		view.Counts[string(k)] = counts[k]
	}
	return view, nil
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
