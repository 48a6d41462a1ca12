package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/shared/auth"
	"findmydreamjobs/internal/shared/telemetry"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "fmdj_session"

const (
	userIDKey       = "userId"
	userEmailKey    = "userEmail"
	userNameKey     = "userName"
	sessionIDKey    = "sessionId"
	backendTokenKey = "backendToken"
	sessionStateKey = "sessionState"
)

// SessionState mirrors the three states a UI session can be in.
type SessionState string

const (
	StateLoading         SessionState = "loading"
	StateAuthenticated   SessionState = "authenticated"
	StateUnauthenticated SessionState = "unauthenticated"
)

// ErrNoSession is returned by resolvers when the token names no live session.
var ErrNoSession = errors.New("no session")

// Identity is what a resolved session exposes to handlers.
type Identity struct {
	SessionID    string
	UserID       string
	Email        string
	Name         string
	BackendToken string
}

// SessionResolver turns a session token into an identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// Auth resolves the session cookie (or a Bearer token) and records the
// session state. It never rejects a request; RequireSession does that.
func Auth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionStateKey, StateLoading)

		token := SessionTokenFromRequest(c)
		if token == "" || resolver == nil {
			c.Set(sessionStateKey, StateUnauthenticated)
			c.Next()
			return
		}

		id, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				telemetry.Warn("session.resolve_failed", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      err.Error(),
				})
			}
			c.Set(sessionStateKey, StateUnauthenticated)
			c.Next()
			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

// SetIdentity stores an authenticated identity on the request.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(sessionIDKey, id.SessionID)
	c.Set(userIDKey, id.UserID)
	if id.Email != "" {
		c.Set(userEmailKey, id.Email)
	}
	if id.Name != "" {
		c.Set(userNameKey, id.Name)
	}
	if id.BackendToken != "" {
		c.Set(backendTokenKey, id.BackendToken)
		c.Request = c.Request.WithContext(auth.WithBackendToken(c.Request.Context(), id.BackendToken))
	}
	c.Set(sessionStateKey, StateAuthenticated)
}

// SessionTokenFromRequest reads the session cookie, falling back to a
// Bearer Authorization header.
func SessionTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// SetSessionCookie writes the session cookie. Secure is set outside dev.
func SetSessionCookie(c *gin.Context, token string, maxAgeSeconds int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAgeSeconds, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}

// IdentityFromContext returns the identity set by Auth, if authenticated.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	if SessionStateFromContext(c) != StateAuthenticated {
		return Identity{}, false
	}
	return Identity{
		SessionID:    c.GetString(sessionIDKey),
		UserID:       c.GetString(userIDKey),
		Email:        c.GetString(userEmailKey),
		Name:         c.GetString(userNameKey),
		BackendToken: c.GetString(backendTokenKey),
	}, true
}

// SessionStateFromContext returns the session state recorded by Auth.
func SessionStateFromContext(c *gin.Context) SessionState {
	if c == nil {
		return StateUnauthenticated
	}
	val, ok := c.Get(sessionStateKey)
	if !ok {
		return StateUnauthenticated
	}
	if state, ok := val.(SessionState); ok {
		return state
	}
	return StateUnauthenticated
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userEmailKey)
}

// UserNameFromContext fetches the display name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userNameKey)
}

// SessionIDFromContext fetches the session ID set by the auth middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(sessionIDKey)
}

// BackendTokenFromContext fetches the backend token held by the session.
func BackendTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(backendTokenKey)
}

// BackendUserIDFromContext parses the session user id as the numeric id the
// REST backend expects.
func BackendUserIDFromContext(c *gin.Context) (int64, error) {
	raw := UserIDFromContext(c)
	if raw == "" {
		return 0, ErrNoSession
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("session user id %q is not numeric", raw)
	}
	return id, nil
}
