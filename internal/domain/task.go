package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type DuplicateStrategy string

const (
	StrategySkip   DuplicateStrategy = "skip"
	StrategyUpdate DuplicateStrategy = "update"
	StrategyError  DuplicateStrategy = "error"
)

func ParseStrategy(s string) (DuplicateStrategy, error) {
	switch DuplicateStrategy(s) {
	case StrategySkip, StrategyUpdate, StrategyError:
		return DuplicateStrategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// ImportTask is mutated only by the orchestrator execution that owns it;
// everyone else observes snapshots through the progress tracker.
type ImportTask struct {
	ID           uuid.UUID         `db:"id"            json:"task_id"`
	FileID       uuid.UUID         `db:"file_id"       json:"file_id"`
	Strategy     DuplicateStrategy `db:"strategy"      json:"strategy"`
	Status       Status            `db:"status"        json:"status"`
	Total        int               `db:"total"         json:"total"`
	Processed    int               `db:"processed"     json:"processed"`
	Succeeded    int               `db:"succeeded"     json:"succeeded"`
	Skipped      int               `db:"skipped"       json:"skipped"`
	Errored      int               `db:"errored"       json:"errored"`
	ErrorMessage string            `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time         `db:"created_at"    json:"created_at"`
	CompletedAt  *time.Time        `db:"completed_at"  json:"completed_at"`
}

func (t *ImportTask) Terminal() bool {
	return t.Status == StatusSucceeded || t.Status == StatusFailed
}

// Clone returns a copy safe to hand to concurrent readers.
func (t *ImportTask) Clone() *ImportTask {
	clone := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		clone.CompletedAt = &at
	}
	return &clone
}
