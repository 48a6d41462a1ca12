package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/session"
	"findmydreamjobs/internal/shared/telemetry"
	"findmydreamjobs/internal/users"
)

const (
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	// stateCookie binds an OAuth state to the browser that started the flow.
	stateCookie = "fmdj_oauth_state"
)

// Error codes placed on /login?error=... after a failed Google sign-in.
const (
	ErrorAccountNotFound = "AccountNotFound"
	ErrorOAuthCallback   = "OAuthCallback"
	ErrorNotConfigured   = "Configuration"
)

// AccountLookup resolves a Google identity to a backend account.
type AccountLookup interface {
	Whoami(ctx context.Context, req backend.WhoamiRequest) (backend.WhoamiResponse, error)
}

// SessionStarter opens a browser session after sign-in.
type SessionStarter interface {
	Establish(c *gin.Context, in session.StartInput) (session.Session, error)
}

// GoogleSignIn handles the Google OAuth flow. Only users that already have a
// backend account can sign in this way.
type GoogleSignIn struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	publicURL   string
	secure      bool
	accounts    AccountLookup
	users       *users.Service
	sessions    SessionStarter
	stateTTL    time.Duration
	stateStore  *stateStore
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// PublicURL is the origin the browser is sent back to. Empty means
	// relative redirects.
	PublicURL string
	// SecureCookie marks the state cookie Secure.
	SecureCookie bool
}

func NewGoogleSignIn(cfg GoogleConfig, accounts AccountLookup, userSvc *users.Service, sessions SessionStarter) *GoogleSignIn {
	return &GoogleSignIn{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
		publicURL:   cfg.PublicURL,
		secure:      cfg.SecureCookie,
		accounts:    accounts,
		users:       userSvc,
		sessions:    sessions,
		stateTTL:    5 * time.Minute,
		stateStore:  newStateStore(),
	}
}

func (s *GoogleSignIn) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/signin/google", s.start)
	rg.GET("/auth/callback/google", s.callback)
}

func (s *GoogleSignIn) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleSignIn) start(c *gin.Context) {
	if !s.configured() {
		s.fail(c, ErrorNotConfigured, nil)
		return
	}
	state := uuid.NewString()
	s.stateStore.put(state, time.Now().Add(s.stateTTL))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, int(s.stateTTL.Seconds()), "/", "", s.secure, true)
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

func (s *GoogleSignIn) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	bound, _ := c.Cookie(stateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/", "", s.secure, true)
	if state == "" || code == "" || !sameState(bound, state) || !s.stateStore.consume(state) {
		s.fail(c, ErrorOAuthCallback, nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.fail(c, ErrorOAuthCallback, err)
		return
	}
	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		s.fail(c, ErrorOAuthCallback, err)
		return
	}
	if info.Email == "" {
		s.fail(c, ErrorOAuthCallback, fmt.Errorf("google profile has no email"))
		return
	}

	who, err := s.accounts.Whoami(ctx, backend.WhoamiRequest{Email: info.Email, Name: info.Name})
	if backend.IsNotFound(err) || (err == nil && who.UserID == 0) {
		s.fail(c, ErrorAccountNotFound, nil)
		return
	}
	if err != nil {
		s.fail(c, ErrorOAuthCallback, err)
		return
	}

	userID := strconv.FormatInt(who.UserID, 10)
	if s.users != nil {
		if err := s.users.RecordLogin(ctx, users.User{
			ID:         userID,
			Email:      info.Email,
			FullName:   info.Name,
			PictureURL: info.Picture,
			Provider:   session.ProviderGoogle,
		}); err != nil {
			telemetry.Warn("users.record_login_failed", map[string]any{"user_id": userID, "error": err.Error()})
		}
	}

	if _, err := s.sessions.Establish(c, session.StartInput{
		UserID:   userID,
		Email:    info.Email,
		Name:     info.Name,
		Provider: session.ProviderGoogle,
	}); err != nil {
		s.fail(c, ErrorOAuthCallback, err)
		return
	}
	c.Redirect(http.StatusFound, s.publicURL+"/dashboard")
}

// fail sends the browser back to the login page with an error code.
func (s *GoogleSignIn) fail(c *gin.Context, code string, err error) {
	fields := map[string]any{"reason": code}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("auth.google_failed", fields)
	c.Redirect(http.StatusFound, s.publicURL+"/login?error="+url.QueryEscape(code))
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleSignIn) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// v2 userinfo uses "id".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

// sameState reports whether the callback state is the one issued to this
// browser.
func sameState(cookie, state string) bool {
	return cookie != "" && subtle.ConstantTimeCompare([]byte(cookie), []byte(state)) == 1
}

// stateStore holds OAuth state values until they are used once or expire.
type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
	now   func() time.Time
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time), now: time.Now}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	return ok && !s.now().After(exp)
}
