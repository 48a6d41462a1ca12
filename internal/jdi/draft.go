package jdi

import (
	"errors"
	"slices"
	"strings"

	"findmydreamjobs/internal/backend"
)

const (
	DefaultMinScore       = 60
	DefaultScanWindowDays = 7
	MaxBaseResumes        = 3
)

// Sources lists the job-alert senders JDI knows how to read, in display order.
var Sources = []string{"linkedin", "indeed", "trueup", "other"}

// ScanWindows are the selectable look-back windows in days.
var ScanWindows = []int{1, 2, 3, 5, 7}

// RuleError is a draft edit that the form rules refuse. Its message is shown
// to the user as is.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

var (
	ErrResumeSelected   = &RuleError{Message: "Resume already selected"}
	ErrTooManyResumes   = &RuleError{Message: "Maximum 3 base resumes allowed"}
	ErrInvalidPattern   = &RuleError{Message: "Please enter a valid email address"}
	ErrDuplicatePattern = &RuleError{Message: "Pattern already added"}
	ErrUnknownSource    = &RuleError{Message: "Unknown job source"}
	ErrMinScoreRange    = &RuleError{Message: "Minimum score must be between 0 and 100"}
	ErrScanWindow       = &RuleError{Message: "Scan window must be 1, 2, 3, 5 or 7 days"}
	ErrInvalidResumeID  = &RuleError{Message: "Please choose a resume"}
)

// IsRuleError reports whether err came from a draft rule.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

// Draft is the JDI setup form held between edits.
type Draft struct {
	Sources        []string `json:"sources"`
	ResumeIDs      []int64  `json:"resume_ids"`
	MinScore       int      `json:"min_score"`
	ScanWindowDays int      `json:"scan_window_days"`
	CustomPatterns []string `json:"custom_patterns"`
}

// NewDraft returns the form defaults: every source on, no resumes, score 60
// and a seven day window.
func NewDraft() Draft {
	return Draft{
		Sources:        slices.Clone(Sources),
		ResumeIDs:      []int64{},
		MinScore:       DefaultMinScore,
		ScanWindowDays: DefaultScanWindowDays,
		CustomPatterns: []string{},
	}
}

// DraftFromProfile starts from the defaults and lets saved profile values
// override them. A saved but empty source or resume list is kept as is; only
// a missing list falls back to the default. A nil profile yields the
// defaults.
func DraftFromProfile(p *backend.UserProfile) Draft {
	d := NewDraft()
	if p == nil {
		return d
	}
	if p.JDISourcesEnabled != nil {
		d.Sources = append([]string{}, p.JDISourcesEnabled...)
	}
	if p.JDIBaseResumeIDs != nil {
		d.ResumeIDs = append([]int64{}, p.JDIBaseResumeIDs...)
	}
	if p.JDIMinScore != 0 {
		d.MinScore = p.JDIMinScore
	}
	if p.JDIScanWindowDays != 0 {
		d.ScanWindowDays = p.JDIScanWindowDays
	}
	if len(p.JDICustomSourcePatterns) > 0 {
		d.CustomPatterns = slices.Clone(p.JDICustomSourcePatterns)
	}
	return d
}

// ToggleSource adds source when absent and removes it when present.
func (d *Draft) ToggleSource(source string) error {
	if !slices.Contains(Sources, source) {
		return ErrUnknownSource
	}
	if i := slices.Index(d.Sources, source); i >= 0 {
		d.Sources = slices.Delete(d.Sources, i, i+1)
		return nil
	}
	d.Sources = append(d.Sources, source)
	return nil
}

func (d *Draft) AddResume(id int64) error {
	if id <= 0 {
		return ErrInvalidResumeID
	}
	if slices.Contains(d.ResumeIDs, id) {
		return ErrResumeSelected
	}
	if len(d.ResumeIDs) >= MaxBaseResumes {
		return ErrTooManyResumes
	}
	d.ResumeIDs = append(d.ResumeIDs, id)
	return nil
}

func (d *Draft) RemoveResume(id int64) {
	d.ResumeIDs = slices.DeleteFunc(d.ResumeIDs, func(v int64) bool { return v == id })
}

func (d *Draft) SetMinScore(score int) error {
	if score < 0 || score > 100 {
		return ErrMinScoreRange
	}
	d.MinScore = score
	return nil
}

func (d *Draft) SetScanWindow(days int) error {
	if !slices.Contains(ScanWindows, days) {
		return ErrScanWindow
	}
	d.ScanWindowDays = days
	return nil
}

// AddPattern records a custom sender address. A blank pattern is ignored and
// reported as not added.
func (d *Draft) AddPattern(raw string) (bool, error) {
	pattern := strings.TrimSpace(raw)
	if pattern == "" {
		return false, nil
	}
	if !strings.Contains(pattern, "@") {
		return false, ErrInvalidPattern
	}
	if slices.Contains(d.CustomPatterns, pattern) {
		return false, ErrDuplicatePattern
	}
	d.CustomPatterns = append(d.CustomPatterns, pattern)
	return true, nil
}

func (d *Draft) RemovePattern(pattern string) {
	pattern = strings.TrimSpace(pattern)
	d.CustomPatterns = slices.DeleteFunc(d.CustomPatterns, func(v string) bool { return v == pattern })
}

// Update converts the draft into the profile PUT body. No custom patterns
// are sent as null.
func (d Draft) Update() backend.ProfileUpdate {
	out := backend.ProfileUpdate{
		JDISourcesEnabled: slices.Clone(d.Sources),
		JDIBaseResumeIDs:  slices.Clone(d.ResumeIDs),
		JDIMinScore:       d.MinScore,
		JDIScanWindowDays: d.ScanWindowDays,
	}
	if out.JDISourcesEnabled == nil {
		out.JDISourcesEnabled = []string{}
	}
	if out.JDIBaseResumeIDs == nil {
		out.JDIBaseResumeIDs = []int64{}
	}
	if len(d.CustomPatterns) > 0 {
		out.JDICustomSourcePatterns = slices.Clone(d.CustomPatterns)
	}
	return out
}
