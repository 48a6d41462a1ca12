package jdi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGStore implements DraftStore on the jdi_drafts table. The draft is kept
// as a JSONB document.
type PGStore struct {
	DB  *sql.DB
	now func() time.Time
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db, now: time.Now}
}

func (s *PGStore) Get(ctx context.Context, sessionID string) (Draft, error) {
	const query = `SELECT draft FROM jdi_drafts WHERE session_id = $1`
	var raw []byte
	if err := s.DB.QueryRowContext(ctx, query, sessionID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("decode jdi draft: %w", err)
	}
	return d, nil
}

func (s *PGStore) Put(ctx context.Context, sessionID string, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode jdi draft: %w", err)
	}
	const query = `
INSERT INTO jdi_drafts (session_id, draft, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (session_id) DO UPDATE SET draft = EXCLUDED.draft, updated_at = EXCLUDED.updated_at`
	_, err = s.DB.ExecContext(ctx, query, sessionID, raw, s.clock().UTC())
	return err
}

func (s *PGStore) Create(ctx context.Context, sessionID string, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode jdi draft: %w", err)
	}
	const query = `
INSERT INTO jdi_drafts (session_id, draft, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (session_id) DO NOTHING`
	_, err = s.DB.ExecContext(ctx, query, sessionID, raw, s.clock().UTC())
	return err
}

// Update locks the draft row for the length of the edit.
func (s *PGStore) Update(ctx context.Context, sessionID string, fn func(*Draft) error) (Draft, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Draft{}, err
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx, `SELECT draft FROM jdi_drafts WHERE session_id = $1 FOR UPDATE`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("decode jdi draft: %w", err)
	}
	if err := fn(&d); err != nil {
		return Draft{}, err
	}
	if raw, err = json.Marshal(d); err != nil {
		return Draft{}, fmt.Errorf("encode jdi draft: %w", err)
	}
	const update = `UPDATE jdi_drafts SET draft = $2, updated_at = $3 WHERE session_id = $1`
	if _, err := tx.ExecContext(ctx, update, sessionID, raw, s.clock().UTC()); err != nil {
		return Draft{}, err
	}
	if err := tx.Commit(); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *PGStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM jdi_drafts WHERE session_id = $1`, sessionID)
	return err
}

func (s *PGStore) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

var _ DraftStore = (*PGStore)(nil)
