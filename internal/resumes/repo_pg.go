package resumes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements ArchiveRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, u Upload) error {
	const query = `
INSERT INTO resume_uploads (
    id,
    user_id,
    resume_id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    pages,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var resumeID sql.NullInt64
	if u.ResumeID != 0 {
		resumeID = sql.NullInt64{Int64: u.ResumeID, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		u.ID,
		u.UserID,
		resumeID,
		u.FileName,
		u.MimeType,
		u.SizeBytes,
		u.StorageKey,
		u.Pages,
		u.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

const selectUpload = `
SELECT id, user_id, resume_id, file_name, mime_type, size_bytes, storage_key, pages, created_at
FROM resume_uploads`

func (r *PGRepo) GetByResume(ctx context.Context, userID string, resumeID int64) (Upload, error) {
	row := r.DB.QueryRowContext(ctx, selectUpload+`
WHERE user_id = $1 AND resume_id = $2
LIMIT 1`, userID, resumeID)
	u, err := scanUpload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Upload{}, ErrNotFound
	}
	return u, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Upload, error) {
	rows, err := r.DB.QueryContext(ctx, selectUpload+`
WHERE user_id = $1
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Upload, 0)
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner) (Upload, error) {
	var u Upload
	var resumeID sql.NullInt64
	if err := s.Scan(
		&u.ID,
		&u.UserID,
		&resumeID,
		&u.FileName,
		&u.MimeType,
		&u.SizeBytes,
		&u.StorageKey,
		&u.Pages,
		&u.CreatedAt,
	); err != nil {
		return Upload{}, err
	}
	if resumeID.Valid {
		u.ResumeID = resumeID.Int64
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ArchiveRepo = (*PGRepo)(nil)
