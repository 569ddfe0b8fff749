package domain

import (
	"time"

	"github.com/google/uuid"
)

type UploadedFile struct {
	ID          uuid.UUID `db:"id"           json:"file_id"`
	Name        string    `db:"name"         json:"name"`
	Size        int64     `db:"size"         json:"size"`
	ContentType string    `db:"content_type" json:"content_type"`
	UploadedAt  time.Time `db:"uploaded_at"  json:"uploaded_at"`
}

// ParseResult is derived from the stored file on demand and never persisted.
// Columns keeps the file's own ordering; SuggestedMapping maps a column to a
// target field name, empty string meaning unmapped.
type ParseResult struct {
	FileID           uuid.UUID           `json:"file_id"`
	Columns          []string            `json:"columns"`
	PreviewRows      []map[string]string `json:"preview_rows"`
	SuggestedMapping map[string]string   `json:"suggested_mapping"`
	TotalRows        int                 `json:"total_rows"`
}

// RowOutcome records one failed row. Row numbering is 1-indexed over the
// source file, header included, so the first data row is row 2. The csv tags
// shape the downloadable error log.
type RowOutcome struct {
	Row   int    `csv:"row"   db:"row_number"    json:"row"`
	Name  string `csv:"nome"  db:"name"          json:"nome"`
	Email string `csv:"email" db:"email"         json:"email"`
	Error string `csv:"error" db:"error_message" json:"error"`
}

// ImportResult is the terminal summary. Errors holds a bounded preview;
// ErrorCount is the full number of recorded failures.
type ImportResult struct {
	TaskID     uuid.UUID     `json:"task_id"`
	Status     Status        `json:"status"`
	Total      int           `json:"total"`
	Success    int           `json:"success"`
	Skipped    int           `json:"skipped"`
	Errors     []*RowOutcome `json:"errors"`
	ErrorCount int           `json:"error_count"`
	HasLog     bool          `json:"error_log_available"`
}
