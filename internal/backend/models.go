package backend

// Payload mirrors of the REST backend. Scores are pointers because the
// backend reports null before a score has been computed.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type SignupResponse struct {
	UserID int64 `json:"user_id"`
}

type WhoamiRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type WhoamiResponse struct {
	UserID int64 `json:"user_id"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Message is the generic {"message": "..."} acknowledgement.
type Message struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

type Resume struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"user_id,omitempty"`
	ResumeName      string   `json:"resume_name,omitempty"`
	FileName        string   `json:"file_name,omitempty"`
	ParsedText      string   `json:"parsed_text,omitempty"`
	OptimizedText   string   `json:"optimized_text,omitempty"`
	ATSScoreInitial *float64 `json:"ats_score_initial"`
	ATSScoreFinal   *float64 `json:"ats_score_final"`
	Approved        bool     `json:"approved,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// UploadResult is returned by /upload-resume. Status is "duplicate" when the
// same file was uploaded before.
type UploadResult struct {
	ResumeID int64  `json:"resume_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
}

type SkillCount struct {
	Skill     string `json:"skill"`
	Frequency int    `json:"frequency"`
}

type JobSkills struct {
	Skills           []SkillCount `json:"skills,omitempty"`
	EmphasizedSkills []string     `json:"emphasized_skills,omitempty"`
}

type Job struct {
	ID               int64      `json:"id"`
	JobID            int64      `json:"job_id,omitempty"`
	UserID           int64      `json:"user_id,omitempty"`
	JobTitle         string     `json:"job_title"`
	CompanyName      string     `json:"company_name"`
	Location         string     `json:"location,omitempty"`
	Experience       string     `json:"experience,omitempty"`
	JobLink          string     `json:"job_link,omitempty"`
	JobDescription   string     `json:"job_description,omitempty"`
	EmphasizedSkills []string   `json:"emphasized_skills,omitempty"`
	Skills           *JobSkills `json:"skills,omitempty"`
	CreatedAt        string     `json:"created_at,omitempty"`
}

// Key returns the backend job id, preferring id over job_id.
func (j Job) Key() int64 {
	if j.ID != 0 {
		return j.ID
	}
	return j.JobID
}

// Emphasized returns the emphasized skills wherever the backend put them.
func (j Job) Emphasized() []string {
	if len(j.EmphasizedSkills) > 0 {
		return j.EmphasizedSkills
	}
	if j.Skills != nil {
		return j.Skills.EmphasizedSkills
	}
	return nil
}

type ParseJobRequest struct {
	UserID         int64  `json:"user_id"`
	JobDescription string `json:"job_description,omitempty"`
	JobLink        string `json:"job_link,omitempty"`
}

type JobUpdate struct {
	JobTitle       *string `json:"job_title,omitempty"`
	CompanyName    *string `json:"company_name,omitempty"`
	Location       *string `json:"location,omitempty"`
	Experience     *string `json:"experience,omitempty"`
	JobLink        *string `json:"job_link,omitempty"`
	JobDescription *string `json:"job_description,omitempty"`
}

type SearchResult struct {
	JobTitle     string `json:"job_title"`
	EmployerName string `json:"employer_name"`
	JobLocation  string `json:"job_location"`
	Description  string `json:"description"`
	PostedAt     string `json:"posted_at,omitempty"`
	RedirectURL  string `json:"redirect_url"`
	Salary       string `json:"salary,omitempty"`
}

type SearchResponse struct {
	Status  string         `json:"status,omitempty"`
	Results []SearchResult `json:"results"`
}

type AnalyzeSearchedJobRequest struct {
	JobTitle       string `json:"job_title"`
	EmployerName   string `json:"employer_name"`
	JobDescription string `json:"job_description"`
	JobLocation    string `json:"job_location"`
	Salary         string `json:"salary"`
	JobLink        string `json:"job_link"`
	UserID         int64  `json:"user_id"`
}

type MatchRequest struct {
	ResumeID int64 `json:"resume_id"`
	JobID    int64 `json:"job_id"`
}

type MatchScore struct {
	ResumeID      int64    `json:"resume_id"`
	JobID         int64    `json:"job_id"`
	MatchScore    *float64 `json:"match_score"`
	ATSScore      *float64 `json:"ats_score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

type Match struct {
	MatchID           int64    `json:"match_id"`
	JobID             int64    `json:"job_id"`
	JobTitle          string   `json:"job_title"`
	CompanyName       string   `json:"company_name"`
	ResumeID          int64    `json:"resume_id"`
	MatchScoreInitial *float64 `json:"match_score_initial"`
	MatchScoreFinal   *float64 `json:"match_score_final"`
	ATSScoreInitial   *float64 `json:"ats_score_initial"`
	ATSScoreFinal     *float64 `json:"ats_score_final"`
	CreatedAt         string   `json:"created_at"`
}

type ATSScore struct {
	ResumeID        int64    `json:"resume_id"`
	ATSScoreInitial *float64 `json:"ats_score_initial"`
	ATSScoreFinal   *float64 `json:"ats_score_final"`
	Message         string   `json:"message,omitempty"`
}

type OptimizeRequest struct {
	ResumeID         int64    `json:"resume_id"`
	JobID            int64    `json:"job_id"`
	EmphasizedSkills []string `json:"emphasized_skills"`
	Justification    string   `json:"justification"`
}

type OptimizeResult struct {
	ResumeID      int64    `json:"resume_id,omitempty"`
	OptimizedText string   `json:"optimized_text"`
	ATSScoreFinal *float64 `json:"ats_score_final"`
	Message       string   `json:"message,omitempty"`
}

type Application struct {
	ApplicationID     int64    `json:"application_id"`
	UserID            int64    `json:"user_id,omitempty"`
	JobID             int64    `json:"job_id"`
	ResumeID          int64    `json:"resume_id"`
	JobTitle          string   `json:"job_title"`
	CompanyName       string   `json:"company_name"`
	ApplicationURL    string   `json:"application_url,omitempty"`
	ApplicationStatus string   `json:"application_status"`
	AppliedDate       string   `json:"applied_date,omitempty"`
	MatchScore        *float64 `json:"match_score"`
	ATSScore          *float64 `json:"ats_score"`
}

type SubmitApplicationRequest struct {
	UserID         int64  `json:"user_id"`
	ResumeID       int64  `json:"resume_id"`
	JobID          int64  `json:"job_id"`
	ApplicationURL string `json:"application_url"`
}

type JDICandidate struct {
	ID             string   `json:"id"`
	Source         string   `json:"source"`
	Title          *string  `json:"title"`
	Company        *string  `json:"company"`
	Location       *string  `json:"location"`
	EmploymentType *string  `json:"employment_type"`
	SalaryText     *string  `json:"salary_text"`
	MatchScore     *int     `json:"match_score"`
	MatchReasons   []string `json:"match_reasons"`
	Status         string   `json:"status"`
	SeenAt         *string  `json:"seen_at"`
	JobURLRaw      *string  `json:"job_url_raw"`
	CreatedAt      string   `json:"created_at"`
}

type JDICandidateDetail struct {
	JDICandidate
	JDText                 *string `json:"jd_text"`
	JDExtractionConfidence *int    `json:"jd_extraction_confidence"`
	JobURLCanonical        *string `json:"job_url_canonical"`
	SelectedResumeID       *int64  `json:"selected_resume_id"`
	UpdatedAt              *string `json:"updated_at"`
}

type JDICandidateFeed struct {
	Candidates []JDICandidate `json:"candidates"`
	Total      int            `json:"total"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// CandidateQuery holds the feed filters. Zero values are omitted.
type CandidateQuery struct {
	Status     string
	MinScore   *int
	UnreadOnly bool
	ReadOnly   bool
	Source     string
	Limit      int
	Offset     int
}

type PromoteResult struct {
	JobID  int64  `json:"job_id"`
	Status string `json:"status"`
}

type JDIRunResult struct {
	NewCandidates      int    `json:"new_candidates"`
	TotalEmailsScanned int    `json:"total_emails_scanned"`
	Message            string `json:"message"`
}

type GmailStatus struct {
	ID         string   `json:"id"`
	UserID     int64    `json:"user_id"`
	Provider   string   `json:"provider"`
	Status     string   `json:"status"`
	Scopes     []string `json:"scopes"`
	LastSyncAt *string  `json:"last_sync_at"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  *string  `json:"updated_at"`
}

type UserProfile struct {
	UserID                  int64          `json:"user_id"`
	TargetTitles            []string       `json:"target_titles"`
	TargetLocations         []string       `json:"target_locations"`
	JDIMinScore             int            `json:"jdi_min_score"`
	JDISourcesEnabled       []string       `json:"jdi_sources_enabled"`
	JDIBaseResumeIDs        []int64        `json:"jdi_base_resume_ids"`
	JDIResumeSelectMode     string         `json:"jdi_resume_select_mode"`
	JDIResumeKeywordRules   map[string]int `json:"jdi_resume_keyword_rules"`
	JDIScanWindowDays       int            `json:"jdi_scan_window_days"`
	JDICustomSourcePatterns []string       `json:"jdi_custom_source_patterns"`
	CreatedAt               string         `json:"created_at"`
	UpdatedAt               *string        `json:"updated_at"`
}

// ProfileUpdate is the JDI preferences PUT body. A nil pattern slice is
// sent as null.
type ProfileUpdate struct {
	JDISourcesEnabled       []string `json:"jdi_sources_enabled"`
	JDIBaseResumeIDs        []int64  `json:"jdi_base_resume_ids"`
	JDIMinScore             int      `json:"jdi_min_score"`
	JDIScanWindowDays       int      `json:"jdi_scan_window_days"`
	JDICustomSourcePatterns []string `json:"jdi_custom_source_patterns"`
}

type WizardProgress struct {
	Email string `json:"email"`
	Step  string `json:"step,omitempty"`
}
