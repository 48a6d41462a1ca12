package accounts

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/session"
	"findmydreamjobs/internal/shared/server/respond"
	"findmydreamjobs/internal/shared/validate"
)

const (
	msgMissingCredentials = "Please enter both email and password."
	msgMissingFields      = "Please enter all fields."
	msgLoginAfterSignup   = "Login failed after signup."
	msgSignupFailed       = "Sign up failed: "
	msgInvalidCredentials = "❌ Invalid email or password."
	msgResetSent          = "📩 Password reset email sent! Redirecting..."
	msgMissingToken       = "Missing reset token."
	msgPasswordTooShort   = "Password must be at least 8 characters."
	msgPasswordMismatch   = "Passwords don't match."
	msgResetDone          = "✅ Password reset successful!"

	minPasswordLen = 8
)

// SessionStarter opens a browser session after a successful login.
type SessionStarter interface {
	Establish(c *gin.Context, in session.StartInput) (session.Session, error)
}

type Handler struct {
	Svc      *Service
	Sessions SessionStarter
}

func NewHandler(svc *Service, sessions SessionStarter) *Handler {
	return &Handler{Svc: svc, Sessions: sessions}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/signup", h.signup)
	rg.POST("/auth/forgot-password", h.forgotPassword)
	rg.POST("/auth/reset-password", h.resetPassword)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Password string `json:"password" validate:"required"`
}

type forgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Invalid(c, msgMissingCredentials, nil)
		return
	}

	in, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", msgInvalidCredentials, nil)
		return
	}
	if err != nil {
		respond.Upstream(c, err, "Login failed.")
		return
	}
	h.finish(c, in, "/dashboard")
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		respond.Invalid(c, msgMissingFields, nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Invalid(c, "Please enter a valid email address", validate.Details(err))
		return
	}

	in, err := h.Svc.Signup(c.Request.Context(), req.Email, req.FullName, req.Password)
	if errors.Is(err, ErrLoginAfterSignup) {
		respond.Error(c, http.StatusBadGateway, "login_failed", msgLoginAfterSignup, nil)
		return
	}
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			detail := apiErr.Detail
			if detail == "" {
				detail = http.StatusText(apiErr.Status)
			}
			respond.Error(c, apiErr.Status, "signup_failed", msgSignupFailed+detail, nil)
			return
		}
		respond.Upstream(c, err, "Sign up failed.")
		return
	}
	h.finish(c, in, "/")
}

// finish opens the session and tells the page where to go next.
func (h *Handler) finish(c *gin.Context, in session.StartInput, redirect string) {
	sess, err := h.Sessions.Establish(c, in)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start session", nil)
		return
	}
	respond.OK(c, gin.H{
		"user_id":  sess.UserID,
		"email":    sess.Email,
		"redirect": redirect,
	})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		respond.Invalid(c, "Please enter a valid email address", validate.Details(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respond.Upstream(c, err, "Something went wrong.")
		return
	}
	respond.Toast(c, http.StatusOK, msgResetSent, gin.H{"redirect": "/", "redirect_after_ms": 2000})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetRequest
	if !respond.BindJSON(c, &req) {
		return
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	switch {
	case strings.TrimSpace(req.Token) == "":
		respond.Invalid(c, msgMissingToken, nil)
		return
	case len(req.NewPassword) < minPasswordLen:
		respond.Invalid(c, msgPasswordTooShort, nil)
		return
	case req.NewPassword != req.ConfirmPassword:
		respond.Invalid(c, msgPasswordMismatch, nil)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respond.Upstream(c, err, "Something went wrong.")
		return
	}
	respond.Toast(c, http.StatusOK, msgResetDone, gin.H{"redirect": "/login"})
}
