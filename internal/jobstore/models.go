package jobstore

import "time"

// Status represents where a draft sits in its lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// Draft is a stored job file.
type Draft struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Content     string     `json:"content,omitempty"`
	Cases       int        `json:"cases"`
	Stages      int        `json:"stages"`
	RequestID   string     `json:"request_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// Summary holds the counts shown next to a draft in listings.
type Summary struct {
	Cases  int
	Stages int
}
