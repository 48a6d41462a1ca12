package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"findmydreamjobs/internal/shared/auth"
	"findmydreamjobs/internal/shared/metrics"
	"findmydreamjobs/internal/shared/server/middleware"
	"findmydreamjobs/internal/shared/telemetry"
)

const DefaultTTL = 30 * 24 * time.Hour

type Service struct {
	Repo Repo
	TTL  time.Duration
	now  func() time.Time
}

func NewService(repo Repo, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{Repo: repo, TTL: ttl, now: time.Now}
}

// Start persists a new session and returns it with its signed cookie token.
func (s *Service) Start(ctx context.Context, in StartInput) (Session, string, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return Session{}, "", errors.New("user id is required")
	}
	if in.Provider == "" {
		in.Provider = ProviderCredentials
	}
	now := s.now().UTC().Truncate(time.Second)
	sess := Session{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		Email:        in.Email,
		Name:         in.Name,
		BackendToken: in.BackendToken,
		Provider:     in.Provider,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.TTL),
	}
	if err := s.Repo.Create(ctx, sess); err != nil {
		return Session{}, "", fmt.Errorf("create session: %w", err)
	}
	token, err := auth.SignJWT(auth.Claims{
		UserID: sess.UserID,
		Email:  sess.Email,
		Name:   sess.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	if err != nil {
		_ = s.Repo.Delete(ctx, sess.ID)
		return Session{}, "", fmt.Errorf("sign session: %w", err)
	}
	metrics.IncSessionCreated()
	telemetry.Info("session.created", map[string]any{
		"session_id": sess.ID,
		"user_id":    sess.UserID,
		"provider":   sess.Provider,
	})
	return sess, token, nil
}

// Lookup verifies token and returns the live session it names.
func (s *Service) Lookup(ctx context.Context, token string) (Session, error) {
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		return Session{}, middleware.ErrNoSession
	}
	sess, err := s.Repo.Get(ctx, claims.Subject)
	if errors.Is(err, ErrNotFound) {
		return Session{}, middleware.ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	if !sess.ExpiresAt.After(s.now()) || sess.UserID != claims.UserID {
		return Session{}, middleware.ErrNoSession
	}
	return sess, nil
}

// Resolve implements middleware.SessionResolver.
func (s *Service) Resolve(ctx context.Context, token string) (middleware.Identity, error) {
	sess, err := s.Lookup(ctx, token)
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{
		SessionID:    sess.ID,
		UserID:       sess.UserID,
		Email:        sess.Email,
		Name:         sess.Name,
		BackendToken: sess.BackendToken,
	}, nil
}

// End removes the session named by id.
func (s *Service) End(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.Repo.Delete(ctx, id)
}

// Sweep deletes expired sessions.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	return s.Repo.DeleteExpired(ctx, s.now())
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				telemetry.Warn("session.sweep_failed", map[string]any{"error": err.Error()})
				continue
			}
			if n > 0 {
				telemetry.Info("session.swept", map[string]any{"deleted": n})
			}
		}
	}
}
