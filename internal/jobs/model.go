package jobs

import "time"

// MarkKind is a job-search board tab a job can be filed under.
type MarkKind string

const (
	MarkSaved    MarkKind = "saved"
	MarkAnalyzed MarkKind = "analyzed"
	MarkApplied  MarkKind = "applied"
)

// Tabs lists the board tabs in display order. "new" has no marks.
var Tabs = []string{"all", "saved", "analyzed", "applied", "new"}

func (k MarkKind) Valid() bool {
	switch k {
	case MarkSaved, MarkAnalyzed, MarkApplied:
		return true
	}
	return false
}

// Mark files a job under a board tab for a user. JobKey is the backend job
// id when known, else the search result link.
type Mark struct {
	UserID    string    `json:"-"`
	JobKey    string    `json:"job_key"`
	Kind      MarkKind  `json:"mark"`
	JobID     int64     `json:"job_id,omitempty"`
	Title     string    `json:"job_title,omitempty"`
	Company   string    `json:"company_name,omitempty"`
	JobLink   string    `json:"job_link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
