package session

import "time"

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// Session is the server-side record behind the session cookie. It holds the
// backend user id and token that the browser used to keep locally.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	BackendToken string    `json:"-"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// StartInput is what a successful login hands to Start.
type StartInput struct {
	UserID       string
	Email        string
	Name         string
	BackendToken string
	Provider     string
}
