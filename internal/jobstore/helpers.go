package jobstore

import (
	"database/sql"
	"errors"
	"time"
)

// timeLayout keeps a fixed width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const draftColumns = "id, name, status, content, cases, stages, request_id, created_at, updated_at, submitted_at"

func scanDraft(scanner interface{ Scan(dest ...any) error }) (*Draft, error) {
	var (
		id           string
		name         string
		statusStr    string
		content      string
		cases        int
		stages       int
		requestID    sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
		submittedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&statusStr,
		&content,
		&cases,
		&stages,
		&requestID,
		&createdRaw,
		&updatedRaw,
		&submittedRaw,
	); err != nil {
		return nil, err
	}

	draft := &Draft{
		ID:        id,
		Name:      name,
		Status:    Status(statusStr),
		Content:   content,
		Cases:     cases,
		Stages:    stages,
		RequestID: requestID.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		draft.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		draft.UpdatedAt = updated
	}
	if submittedRaw.Valid {
		if submitted, err := parseTimeString(submittedRaw.String); err == nil {
			draft.SubmittedAt = &submitted
		}
	}
	return draft, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
