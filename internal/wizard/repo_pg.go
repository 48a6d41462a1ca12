package wizard

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo on the wizard_state table.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, sessionID string) (State, error) {
	const query = `
SELECT session_id, step, resume_id, job_id, justification, job_description, resume_text, updated_at
FROM wizard_state
WHERE session_id = $1`
	var st State
	var step string
	var resumeID, jobID sql.NullInt64
	var justification, jobDescription, resumeText sql.NullString
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&st.SessionID,
		&step,
		&resumeID,
		&jobID,
		&justification,
		&jobDescription,
		&resumeText,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrNotFound
		}
		return State{}, err
	}
	st.Step = Step(step)
	st.ResumeID = resumeID.Int64
	st.JobID = jobID.Int64
	st.Justification = justification.String
	st.JobDescription = jobDescription.String
	st.ResumeText = resumeText.String
	return st, nil
}

func (r *PGRepo) Put(ctx context.Context, st State) error {
	if st.SessionID == "" {
		return ErrInvalidInput
	}
	const query = `
INSERT INTO wizard_state (session_id, step, resume_id, job_id, justification, job_description, resume_text, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (session_id) DO UPDATE SET
    step = EXCLUDED.step,
    resume_id = EXCLUDED.resume_id,
    job_id = EXCLUDED.job_id,
    justification = EXCLUDED.justification,
    job_description = EXCLUDED.job_description,
    resume_text = EXCLUDED.resume_text,
    updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query,
		st.SessionID,
		string(st.Step),
		nullableID(st.ResumeID),
		nullableID(st.JobID),
		nullableString(st.Justification),
		nullableString(st.JobDescription),
		nullableString(st.ResumeText),
		st.UpdatedAt,
	)
	return err
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
