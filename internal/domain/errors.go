package domain

import "errors"

var (
	// Upload-time errors, surfaced synchronously and never retried.
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile         = errors.New("file is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Parse-time errors.
	ErrFileNotFound  = errors.New("file not found")
	ErrMalformedFile = errors.New("file structure is not parseable")
	ErrNoHeaderRow   = errors.New("file has no header row")

	// Request errors.
	ErrTaskNotFound      = errors.New("import task not found")
	ErrTaskNotTerminal   = errors.New("import task has not finished yet")
	ErrNoErrorsRecorded  = errors.New("import task recorded no errors")
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrCandidateNotFound = errors.New("candidate not found")

	// Mapping and strategy errors.
	ErrUnknownField    = errors.New("mapping references unknown target field")
	ErrInvalidStrategy = errors.New("invalid duplicate strategy")

	// ErrDuplicateKey is surfaced by the record store when a unique
	// constraint rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
)
