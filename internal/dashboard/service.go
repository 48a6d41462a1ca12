package dashboard

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"findmydreamjobs/internal/backend"
	"findmydreamjobs/internal/shared/telemetry"
)

const (
	msgResumesFailed      = "❌ Error fetching resumes."
	msgMatchesFailed      = "❌ Error fetching matches."
	msgApplicationsFailed = "❌ Error fetching applications."
	msgJobsFailed         = "❌ Error fetching jobs."
)

// Backend is the subset of the REST client the dashboard reads from.
type Backend interface {
	ResumesByUser(ctx context.Context, userID int64) ([]backend.Resume, error)
	Matches(ctx context.Context, userID int64) ([]backend.Match, error)
	Applications(ctx context.Context, userID int64) ([]backend.Application, error)
	JobsByUser(ctx context.Context, userID int64) ([]backend.Job, error)
}

type Service struct {
	Backend Backend
}

func NewService(b Backend) *Service {
	return &Service{Backend: b}
}

// Section is one dashboard panel. A failed fetch leaves Items empty and sets
// Error to the message shown in place of the panel.
type Section[T any] struct {
	Items []T    `json:"items"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type View struct {
	Welcome      string                       `json:"welcome"`
	Resumes      Section[backend.Resume]      `json:"resumes"`
	Matches      Section[backend.Match]       `json:"matches"`
	Applications Section[backend.Application] `json:"applications"`
	Jobs         Section[backend.Job]         `json:"jobs"`
	Errors       []string                     `json:"errors"`
}

// Load fetches every panel in parallel and returns once all have finished.
// Panel failures are reported per panel and never fail the whole view.
func (s *Service) Load(ctx context.Context, userID int64, name, email string) (View, error) {
	v := View{Welcome: Welcome(name, email)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v.Resumes = fetch(gctx, "resumes", msgResumesFailed, func(ctx context.Context) ([]backend.Resume, error) {
			return s.Backend.ResumesByUser(ctx, userID)
		})
		return nil
	})
	g.Go(func() error {
		v.Matches = fetch(gctx, "matches", msgMatchesFailed, func(ctx context.Context) ([]backend.Match, error) {
			return s.Backend.Matches(ctx, userID)
		})
		return nil
	})
	g.Go(func() error {
		v.Applications = fetch(gctx, "applications", msgApplicationsFailed, func(ctx context.Context) ([]backend.Application, error) {
			return s.Backend.Applications(ctx, userID)
		})
		return nil
	})
	g.Go(func() error {
		v.Jobs = fetch(gctx, "jobs", msgJobsFailed, func(ctx context.Context) ([]backend.Job, error) {
			return s.Backend.JobsByUser(ctx, userID)
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}
	if err := ctx.Err(); err != nil {
		return View{}, err
	}

	v.Errors = make([]string, 0, 4)
	for _, msg := range []string{v.Resumes.Error, v.Matches.Error, v.Applications.Error, v.Jobs.Error} {
		if msg != "" {
			v.Errors = append(v.Errors, msg)
		}
	}
	return v, nil
}

func fetch[T any](ctx context.Context, section, failure string, load func(context.Context) ([]T, error)) Section[T] {
	items, err := load(ctx)
	if err != nil {
		telemetry.Warn("dashboard.section_failed", map[string]any{
			"section": section,
			"status":  backend.StatusOf(err),
			"error":   err.Error(),
		})
		return Section[T]{Items: []T{}, Error: failure}
	}
	if items == nil {
		items = []T{}
	}
	return Section[T]{Items: items, Count: len(items)}
}

// Welcome greets by display name, falling back to the email's local part.
func Welcome(name, email string) string {
	who := strings.TrimSpace(name)
	if who == "" {
		who, _, _ = strings.Cut(strings.TrimSpace(email), "@")
	}
	if who == "" {
		return "Welcome back!"
	}
	return "Welcome back, " + who + "!"
}
