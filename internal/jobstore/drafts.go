package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"brookesia/internal/services"
)

// Save stores content under name. An existing draft with the same name is
// overwritten in place and returns to the draft status.
func (s *Store) Save(ctx context.Context, name, content string, summary Summary) (*Draft, error) {
	ctx = ensureContext(ctx)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "jobstore", "save", "draft name is required", nil)
	}

	timestamp := formatTime(time.Now())
	_, err := s.exec(
		ctx,
		`INSERT INTO drafts (
            id, name, status, content, cases, stages, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            status = excluded.status,
            content = excluded.content,
            cases = excluded.cases,
            stages = excluded.stages,
            updated_at = excluded.updated_at`,
		uuid.NewString(),
		name,
		StatusDraft,
		content,
		summary.Cases,
		summary.Stages,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return s.GetByName(ctx, name)
}

// Get fetches a draft by identifier.
func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = ?`, id)
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "jobstore", "get", fmt.Sprintf("draft %s", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

// GetByName fetches a draft by its unique name.
func (s *Store) GetByName(ctx context.Context, name string) (*Draft, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE name = ?`, strings.TrimSpace(name))
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "jobstore", "get", fmt.Sprintf("draft %q", name), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft by name: %w", err)
	}
	return draft, nil
}

// Lookup resolves ref as an identifier first and a name second.
func (s *Store) Lookup(ctx context.Context, ref string) (*Draft, error) {
	draft, err := s.Get(ctx, ref)
	if err == nil || !errors.Is(err, services.ErrNotFound) {
		return draft, err
	}
	return s.GetByName(ctx, ref)
}

// List returns every draft, most recently updated first. Content is left empty.
func (s *Store) List(ctx context.Context) ([]*Draft, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, '', cases, stages, request_id, created_at, updated_at, submitted_at
        FROM drafts ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return drafts, nil
}

// Delete removes a draft.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return requireAffected(res, "delete", id)
}

// MarkSubmitted records that a draft was handed to the engine under requestID.
func (s *Store) MarkSubmitted(ctx context.Context, id, requestID string) error {
	timestamp := formatTime(time.Now())
	res, err := s.exec(
		ctx,
		`UPDATE drafts SET status = ?, request_id = ?, submitted_at = ?, updated_at = ? WHERE id = ?`,
		StatusSubmitted,
		nullableString(requestID),
		timestamp,
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark draft submitted: %w", err)
	}
	return requireAffected(res, "mark submitted", id)
}

func requireAffected(res interface{ RowsAffected() (int64, error) }, operation, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return services.Wrap(services.ErrNotFound, "jobstore", operation, fmt.Sprintf("draft %s", id), nil)
	}
	return nil
}

// CountByStatus tallies drafts per status. Statuses with no drafts are
// absent from the map.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM drafts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count drafts: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan draft count: %w", err)
		}
		counts[Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draft counts: %w", err)
	}
	return counts, nil
}
