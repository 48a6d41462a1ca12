package wizard

import (
	"context"
	"errors"
	"time"

	"findmydreamjobs/internal/shared/telemetry"
)

// Backend mirrors the current step so progress follows the user across
// devices.
type Backend interface {
	SaveWizardProgress(ctx context.Context, email, step string) error
	LoadWizardProgress(ctx context.Context, email string) (string, error)
}

type Service struct {
	Repo    Repo
	Backend Backend
	now     func() time.Time
}

func NewService(repo Repo, b Backend) *Service {
	return &Service{Repo: repo, Backend: b, now: time.Now}
}

// Current returns the session's wizard state. A session without state
// resumes from the step stored on the backend, or from upload when there is
// none or it cannot be read.
func (s *Service) Current(ctx context.Context, sessionID, email string) (State, error) {
	st, err := s.Repo.Get(ctx, sessionID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return State{}, err
	}

	st = State{SessionID: sessionID, Step: StepUpload, UpdatedAt: s.clock()}
	if email != "" && s.Backend != nil {
		step, err := s.Backend.LoadWizardProgress(ctx, email)
		if err != nil {
			telemetry.Warn("wizard.load_progress_failed", map[string]any{"error": err.Error()})
		} else if Step(step).Valid() {
			st.Step = Step(step)
		}
	}
	if err := s.Repo.Put(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Update merges patch into the session state.
func (s *Service) Update(ctx context.Context, sessionID, email string, patch Patch) (State, error) {
	st, err := s.Current(ctx, sessionID, email)
	if err != nil {
		return State{}, err
	}
	patch.apply(&st)
	st.UpdatedAt = s.clock()
	if err := s.Repo.Put(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// SetStep moves the wizard to step and mirrors it to the backend. A failed
// mirror is logged; the local state still moves.
func (s *Service) SetStep(ctx context.Context, sessionID, email string, step Step) (State, error) {
	if !step.Valid() {
		return State{}, ErrInvalidInput
	}
	st, err := s.Current(ctx, sessionID, email)
	if err != nil {
		return State{}, err
	}
	st.Step = step
	st.UpdatedAt = s.clock()
	if err := s.Repo.Put(ctx, st); err != nil {
		return State{}, err
	}
	s.mirror(ctx, email, step)
	return st, nil
}

// Complete finishes the current step and moves to the next one. Completing
// the last step keeps the wizard there.
func (s *Service) Complete(ctx context.Context, sessionID, email string) (State, error) {
	st, err := s.Current(ctx, sessionID, email)
	if err != nil {
		return State{}, err
	}
	next, ok := st.Step.Next()
	if !ok {
		return st, nil
	}
	return s.SetStep(ctx, sessionID, email, next)
}

// AdvanceTo lets other features move the wizard once their step succeeds.
func (s *Service) AdvanceTo(ctx context.Context, sessionID, email, step string) error {
	_, err := s.SetStep(ctx, sessionID, email, Step(step))
	return err
}

// StashJobDescription pre-fills the analyze step with a job description
// coming from elsewhere, such as a promoted JDI candidate.
func (s *Service) StashJobDescription(ctx context.Context, sessionID string, jobID int64, jobDescription string) error {
	_, err := s.Update(ctx, sessionID, "", Patch{JobID: &jobID, JobDescription: &jobDescription})
	return err
}

func (s *Service) mirror(ctx context.Context, email string, step Step) {
	if email == "" || s.Backend == nil {
		return
	}
	if err := s.Backend.SaveWizardProgress(ctx, email, string(step)); err != nil {
		telemetry.Warn("wizard.save_progress_failed", map[string]any{
			"step":  string(step),
			"error": err.Error(),
		})
	}
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}
