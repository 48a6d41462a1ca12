package resumes

import "time"

// Upload is the local archive record of a file sent to the backend.
type Upload struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ResumeID   int64     `json:"resume_id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	StorageKey string    `json:"-"`
	Pages      int       `json:"pages,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
