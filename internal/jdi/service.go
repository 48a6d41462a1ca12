package jdi

import (
	"context"
	"errors"
	"strings"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/shared/telemetry"
)

const (
	feedStatus         = "new"
	feedLimit          = 50
	DefaultWindowHours = 24
	MaxWindowHours     = 168
)

var ErrInvalidInput = errors.New("invalid input")

// Backend is the subset of the REST client behind the JDI feed, Gmail
// integration and profile.
type Backend interface {
	Candidates(ctx context.Context, userID int64, q backend.CandidateQuery) (backend.JDICandidateFeed, error)
	Candidate(ctx context.Context, userID int64, candidateID string) (backend.JDICandidateDetail, error)
	MarkCandidateSeen(ctx context.Context, userID int64, candidateID string) error
	IgnoreCandidate(ctx context.Context, userID int64, candidateID string) error
	PromoteCandidate(ctx context.Context, userID int64, candidateID, mode string) (backend.PromoteResult, error)
	RunJDI(ctx context.Context, userID int64, windowHours int) (backend.JDIRunResult, error)
	GmailConnectURL(ctx context.Context, userID int64) (string, error)
	GmailStatus(ctx context.Context, userID int64) (*backend.GmailStatus, error)
	RevokeGmail(ctx context.Context, userID int64) error
	Profile(ctx context.Context, userID int64) (*backend.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, update backend.ProfileUpdate) (backend.UserProfile, error)
}

// Handoff receives the job description of a candidate promoted for analysis
// so the analyze step can start pre-filled.
type Handoff interface {
	StashJobDescription(ctx context.Context, sessionID string, jobID int64, jobDescription string) error
}

type Service struct {
	Backend Backend
	Drafts  DraftStore
	Handoff Handoff
}

func NewService(b Backend, drafts DraftStore, handoff Handoff) *Service {
	return &Service{Backend: b, Drafts: drafts, Handoff: handoff}
}

// FilterMode narrows the feed by read state.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterUnread FilterMode = "unread"
	FilterRead   FilterMode = "read"
)

// ParseFilterMode defaults an empty mode to all.
func ParseFilterMode(raw string) (FilterMode, error) {
	switch mode := FilterMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUnread, FilterRead:
		return mode, nil
	default:
		return "", ErrInvalidInput
	}
}

// Feed lists new candidates, at most fifty, optionally narrowed by read state
// and source.
func (s *Service) Feed(ctx context.Context, userID int64, mode FilterMode, source string) (backend.JDICandidateFeed, error) {
	return s.Backend.Candidates(ctx, userID, backend.CandidateQuery{
		Status:     feedStatus,
		UnreadOnly: mode == FilterUnread,
		ReadOnly:   mode == FilterRead,
		Source:     strings.TrimSpace(source),
		Limit:      feedLimit,
	})
}

// UnreadCount asks for a single unread candidate and reads the total.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	feed, err := s.Backend.Candidates(ctx, userID, backend.CandidateQuery{
		Status:     feedStatus,
		UnreadOnly: true,
		Limit:      1,
	})
	if err != nil {
		return 0, err
	}
	return feed.Total, nil
}

func (s *Service) Candidate(ctx context.Context, userID int64, candidateID string) (backend.JDICandidateDetail, error) {
	return s.Backend.Candidate(ctx, userID, candidateID)
}

func (s *Service) MarkSeen(ctx context.Context, userID int64, candidateID string) error {
	return s.Backend.MarkCandidateSeen(ctx, userID, candidateID)
}

func (s *Service) Ignore(ctx context.Context, userID int64, candidateID string) error {
	return s.Backend.IgnoreCandidate(ctx, userID, candidateID)
}

// Scan runs a manual ingestion. Zero hours means the default window.
func (s *Service) Scan(ctx context.Context, userID int64, windowHours int) (backend.JDIRunResult, error) {
	if windowHours == 0 {
		windowHours = DefaultWindowHours
	}
	if windowHours < 1 || windowHours > MaxWindowHours {
		return backend.JDIRunResult{}, ErrInvalidInput
	}
	return s.Backend.RunJDI(ctx, userID, windowHours)
}

type PromoteMode string

const (
	PromoteSave    PromoteMode = "save"
	PromoteAnalyze PromoteMode = "analyze"
)

// Promotion is the outcome of promoting a candidate. JDText is only filled
// for analyze promotions.
type Promotion struct {
	JobID  int64  `json:"job_id"`
	Status string `json:"status,omitempty"`
	JDText string `json:"jd_text,omitempty"`
}

// Promote turns a candidate into a job. For analyze promotions the candidate
// text is fetched first, when not supplied, and handed to the analyze step.
// A failed detail fetch does not stop the promotion.
func (s *Service) Promote(ctx context.Context, sessionID string, userID int64, candidateID string, mode PromoteMode, jdText string) (Promotion, error) {
	if mode != PromoteSave && mode != PromoteAnalyze {
		return Promotion{}, ErrInvalidInput
	}
	jd := strings.TrimSpace(jdText)
	if jd == "" && mode == PromoteAnalyze {
		detail, err := s.Backend.Candidate(ctx, userID, candidateID)
		if err != nil {
			telemetry.Warn("jdi.candidate_detail_failed", map[string]any{
				"candidate_id": candidateID,
				"error":        err.Error(),
			})
		} else if detail.JDText != nil {
			jd = *detail.JDText
		}
	}

	res, err := s.Backend.PromoteCandidate(ctx, userID, candidateID, string(mode))
	if err != nil {
		return Promotion{}, err
	}
	out := Promotion{JobID: res.JobID, Status: res.Status}
	if mode != PromoteAnalyze {
		return out, nil
	}
	out.JDText = jd
	if jd != "" && s.Handoff != nil {
		if err := s.Handoff.StashJobDescription(ctx, sessionID, res.JobID, jd); err != nil {
			telemetry.Warn("jdi.handoff_failed", map[string]any{
				"candidate_id": candidateID,
				"job_id":       res.JobID,
				"error":        err.Error(),
			})
		}
	}
	return out, nil
}

// GmailState is the connection summary shown on the setup page and feed.
type GmailState struct {
	Connected   bool                 `json:"connected"`
	Integration *backend.GmailStatus `json:"integration"`
}

// Gmail reports the integration state. A missing integration is not an
// error; only an active one counts as connected.
func (s *Service) Gmail(ctx context.Context, userID int64) (GmailState, error) {
	status, err := s.Backend.GmailStatus(ctx, userID)
	if err != nil {
		return GmailState{}, err
	}
	return GmailState{
		Connected:   status != nil && status.Status == "active",
		Integration: status,
	}, nil
}

func (s *Service) ConnectGmail(ctx context.Context, userID int64) (string, error) {
	return s.Backend.GmailConnectURL(ctx, userID)
}

func (s *Service) RevokeGmail(ctx context.Context, userID int64) error {
	return s.Backend.RevokeGmail(ctx, userID)
}

// Draft returns the session's setup draft, seeding it from the saved profile
// the first time.
func (s *Service) Draft(ctx context.Context, sessionID string, userID int64) (Draft, error) {
	d, err := s.Drafts.Get(ctx, sessionID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Draft{}, err
	}
	profile, err := s.Backend.Profile(ctx, userID)
	if err != nil {
		return Draft{}, err
	}
	// Another request of the same session may have seeded it first.
	if err := s.Drafts.Create(ctx, sessionID, DraftFromProfile(profile)); err != nil {
		return Draft{}, err
	}
	return s.Drafts.Get(ctx, sessionID)
}

// Edit applies fn to the session draft and stores the result. A rule error
// leaves the stored draft untouched.
func (s *Service) Edit(ctx context.Context, sessionID string, userID int64, fn func(*Draft) error) (Draft, error) {
	if _, err := s.Draft(ctx, sessionID, userID); err != nil {
		return Draft{}, err
	}
	return s.Drafts.Update(ctx, sessionID, fn)
}

// Save writes the draft to the profile and drops it so the next visit
// starts from the saved profile.
func (s *Service) Save(ctx context.Context, sessionID string, userID int64) (backend.UserProfile, error) {
	d, err := s.Draft(ctx, sessionID, userID)
	if err != nil {
		return backend.UserProfile{}, err
	}
	profile, err := s.Backend.UpdateProfile(ctx, userID, d.Update())
	if err != nil {
		return backend.UserProfile{}, err
	}
	if err := s.Drafts.Delete(ctx, sessionID); err != nil {
		telemetry.Warn("jdi.draft_cleanup_failed", map[string]any{"error": err.Error()})
	}
	return profile, nil
}
