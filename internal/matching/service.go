package matching

import (
	"context"
	"errors"
	"strings"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid input")

// Backend is the subset of the REST client used for scoring and optimizing.
type Backend interface {
	MatchScore(ctx context.Context, req backend.MatchRequest) (backend.MatchScore, error)
	Matches(ctx context.Context, userID int64) ([]backend.Match, error)
	OptimizeResume(ctx context.Context, req backend.OptimizeRequest) (backend.OptimizeResult, error)
	Job(ctx context.Context, jobID int64) (backend.Job, error)
}

// WizardAdvancer moves the guided flow forward after a step succeeds.
type WizardAdvancer interface {
	AdvanceTo(ctx context.Context, sessionID, email, step string) error
}

type Service struct {
	Backend Backend
	Wizard  WizardAdvancer
}

func NewService(b Backend, wizard WizardAdvancer) *Service {
	return &Service{Backend: b, Wizard: wizard}
}

func (s *Service) Score(ctx context.Context, resumeID, jobID int64) (backend.MatchScore, error) {
	if resumeID <= 0 || jobID <= 0 {
		return backend.MatchScore{}, ErrInvalidInput
	}
	return s.Backend.MatchScore(ctx, backend.MatchRequest{ResumeID: resumeID, JobID: jobID})
}

func (s *Service) History(ctx context.Context, userID int64) ([]backend.Match, error) {
	return s.Backend.Matches(ctx, userID)
}

// Preparation pre-fills the optimize form.
type Preparation struct {
	EmphasizedSkills []string `json:"emphasized_skills"`
	MissingSkills    []string `json:"missing_skills"`
	MatchedSkills    []string `json:"matched_skills"`
}

// Prepare collects the job's emphasized skills and the match gaps. When the
// job lists no emphasized skills the matched skills stand in.
func (s *Service) Prepare(ctx context.Context, resumeID, jobID int64) (Preparation, error) {
	if resumeID <= 0 || jobID <= 0 {
		return Preparation{}, ErrInvalidInput
	}
	score, err := s.Backend.MatchScore(ctx, backend.MatchRequest{ResumeID: resumeID, JobID: jobID})
	if err != nil {
		return Preparation{}, err
	}
	prep := Preparation{
		MissingSkills: nonNil(score.MissingSkills),
		MatchedSkills: nonNil(score.MatchedSkills),
	}
	job, err := s.Backend.Job(ctx, jobID)
	if err == nil {
		prep.EmphasizedSkills = job.Emphasized()
	} else if !backend.IsNotFound(err) {
		return Preparation{}, err
	}
	if len(prep.EmphasizedSkills) == 0 {
		prep.EmphasizedSkills = prep.MatchedSkills
	}
	prep.EmphasizedSkills = nonNil(prep.EmphasizedSkills)
	return prep, nil
}

// OptimizeInput is the optimize form. SessionID and Email identify the
// wizard to advance.
type OptimizeInput struct {
	ResumeID         int64
	JobID            int64
	EmphasizedSkills []string
	Justification    string
	SessionID        string
	Email            string
}

// Optimize rewrites the resume for the job. Emphasized skills default to the
// job's own list.
func (s *Service) Optimize(ctx context.Context, in OptimizeInput) (backend.OptimizeResult, error) {
	if in.ResumeID <= 0 || in.JobID <= 0 {
		return backend.OptimizeResult{}, ErrInvalidInput
	}
	skills := cleanSkills(in.EmphasizedSkills)
	if len(skills) == 0 {
		job, err := s.Backend.Job(ctx, in.JobID)
		if err != nil && !backend.IsNotFound(err) {
			return backend.OptimizeResult{}, err
		}
		skills = cleanSkills(job.Emphasized())
	}

	res, err := s.Backend.OptimizeResume(ctx, backend.OptimizeRequest{
		ResumeID:         in.ResumeID,
		JobID:            in.JobID,
		EmphasizedSkills: nonNil(skills),
		Justification:    strings.TrimSpace(in.Justification),
	})
	if err != nil {
		return backend.OptimizeResult{}, err
	}

	if s.Wizard != nil && in.SessionID != "" {
		if err := s.Wizard.AdvanceTo(ctx, in.SessionID, in.Email, "apply"); err != nil {
			telemetry.Warn("wizard.advance_failed", map[string]any{"session_id": in.SessionID, "error": err.Error()})
		}
	}
	return res, nil
}

// SplitSkills parses a comma separated skill list.
func SplitSkills(raw string) []string {
	return cleanSkills(strings.Split(raw, ","))
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
