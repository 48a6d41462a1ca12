package jobs

import (
	"context"
	"database/sql"
)

// PGRepo implements BoardRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Add(ctx context.Context, m Mark) error {
	const query = `
INSERT INTO job_marks (user_id, job_key, mark, job_id, title, company, job_link, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, mark, job_key) DO NOTHING`
	var jobID sql.NullInt64
	if m.JobID != 0 {
		jobID = sql.NullInt64{Int64: m.JobID, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		m.UserID,
		m.JobKey,
		string(m.Kind),
		jobID,
		nullableString(m.Title),
		nullableString(m.Company),
		nullableString(m.JobLink),
		m.CreatedAt,
	)
	return err
}

func (r *PGRepo) List(ctx context.Context, userID string, kind MarkKind) ([]Mark, error) {
	query := `
SELECT job_key, mark, job_id, title, company, job_link, created_at
FROM job_marks
WHERE user_id = $1`
	args := []any{userID}
	if kind != "" {
		query += ` AND mark = $2`
		args = append(args, string(kind))
	}
	query += `
ORDER BY created_at DESC, job_key`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Mark, 0)
	for rows.Next() {
		m := Mark{UserID: userID}
		var kindRaw string
		var jobID sql.NullInt64
		var title, company, link sql.NullString
		if err := rows.Scan(&m.JobKey, &kindRaw, &jobID, &title, &company, &link, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Kind = MarkKind(kindRaw)
		m.JobID = jobID.Int64
		m.Title = title.String
		m.Company = company.String
		m.JobLink = link.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGRepo) Counts(ctx context.Context, userID string) (map[MarkKind]int, error) {
	const query = `
SELECT mark, COUNT(*)
FROM job_marks
WHERE user_id = $1
GROUP BY mark`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[MarkKind]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[MarkKind(kind)] = n
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ BoardRepo = (*PGRepo)(nil)
