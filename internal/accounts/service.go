package accounts

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/session"
	"findmydreamjobs/internal/users"
	"findmydreamjobs/internal/shared/telemetry"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginAfterSignup   = errors.New("login failed after signup")
)

// Backend is the subset of the REST client used for account flows.
type Backend interface {
	Login(ctx context.Context, req backend.LoginRequest) (backend.LoginResponse, error)
	Signup(ctx context.Context, req backend.SignupRequest) (backend.SignupResponse, error)
	RequestPasswordReset(ctx context.Context, email string) (backend.Message, error)
	ResetPassword(ctx context.Context, req backend.ResetPasswordRequest) (backend.Message, error)
}

type Service struct {
	Backend Backend
	Users   *users.Service
}

func NewService(b Backend, u *users.Service) *Service {
	return &Service{Backend: b, Users: u}
}

// Login checks credentials with the backend and returns what the session
// needs to carry.
func (s *Service) Login(ctx context.Context, email, password string) (session.StartInput, error) {
	out, err := s.Backend.Login(ctx, backend.LoginRequest{Email: email, Password: password})
	if err != nil {
		switch backend.StatusOf(err) {
		case 400, 401, 403, 404:
			return session.StartInput{}, ErrInvalidCredentials
		}
		return session.StartInput{}, err
	}
	if out.UserID == 0 {
		return session.StartInput{}, ErrInvalidCredentials
	}
	if out.Email != "" {
		email = out.Email
	}
	in := session.StartInput{
		UserID:       strconv.FormatInt(out.UserID, 10),
		Email:        email,
		BackendToken: out.Token,
		Provider:     session.ProviderCredentials,
	}
	s.remember(ctx, users.User{ID: in.UserID, Email: in.Email, Provider: in.Provider})
	return in, nil
}

// Signup creates the account then logs in with the same credentials.
func (s *Service) Signup(ctx context.Context, email, fullName, password string) (session.StartInput, error) {
	if _, err := s.Backend.Signup(ctx, backend.SignupRequest{Email: email, FullName: fullName, Password: password}); err != nil {
		return session.StartInput{}, err
	}
	in, err := s.Login(ctx, email, password)
	if err != nil {
		telemetry.Warn("accounts.login_after_signup_failed", map[string]any{"error": err.Error()})
		return session.StartInput{}, ErrLoginAfterSignup
	}
	in.Name = fullName
	s.remember(ctx, users.User{ID: in.UserID, Email: in.Email, FullName: fullName, Provider: in.Provider})
	return in, nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.Backend.RequestPasswordReset(ctx, strings.TrimSpace(email))
	return err
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := s.Backend.ResetPassword(ctx, backend.ResetPasswordRequest{Token: token, NewPassword: newPassword})
	return err
}

// remember updates the identity cache. Failures are logged, not returned:
// the backend is the source of truth for accounts.
func (s *Service) remember(ctx context.Context, u users.User) {
	if s.Users == nil {
		return
	}
	if err := s.Users.RecordLogin(ctx, u); err != nil {
		telemetry.Warn("users.record_login_failed", map[string]any{"user_id": u.ID, "error": err.Error()})
	}
}
