package wizard

import (
	"slices"
	"time"
)

type Step string

const (
	StepUpload   Step = "upload"
	StepAnalyze  Step = "analyze"
	StepMatch    Step = "match"
	StepOptimize Step = "optimize"
	StepApply    Step = "apply"
)

// Steps is the guided flow in order.
var Steps = []Step{StepUpload, StepAnalyze, StepMatch, StepOptimize, StepApply}

func (s Step) Valid() bool {
	return slices.Contains(Steps, s)
}

// Index is the position of s in the flow, or -1.
func (s Step) Index() int {
	return slices.Index(Steps, s)
}

// Next returns the step after s. The last step has no successor.
func (s Step) Next() (Step, bool) {
	i := s.Index()
	if i < 0 || i == len(Steps)-1 {
		return "", false
	}
	return Steps[i+1], true
}

// State is the wizard progress and form values carried between steps for a
// session.
type State struct {
	SessionID      string    `json:"-"`
	Step           Step      `json:"step"`
	ResumeID       int64     `json:"resume_id,omitempty"`
	JobID          int64     `json:"job_id,omitempty"`
	Justification  string    `json:"justification,omitempty"`
	JobDescription string    `json:"job_description,omitempty"`
	ResumeText     string    `json:"resume_text,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Patch carries the fields of a partial update. Nil fields are left alone.
type Patch struct {
	ResumeID       *int64  `json:"resume_id"`
	JobID          *int64  `json:"job_id"`
	Justification  *string `json:"justification"`
	JobDescription *string `json:"job_description"`
	ResumeText     *string `json:"resume_text"`
}

func (p Patch) apply(st *State) {
	if p.ResumeID != nil {
		st.ResumeID = *p.ResumeID
	}
	if p.JobID != nil {
		st.JobID = *p.JobID
	}
	if p.Justification != nil {
		st.Justification = *p.Justification
	}
	if p.JobDescription != nil {
		st.JobDescription = *p.JobDescription
	}
	if p.ResumeText != nil {
		st.ResumeText = *p.ResumeText
	}
}
