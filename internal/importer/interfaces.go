package importer

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

type RecordStore interface {
	FindIDByEmail(ctx context.Context, email string) (uuid.UUID, bool, error)
	Create(ctx context.Context, candidate *domain.Candidate) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, candidate *domain.Candidate) error
}

type FileStore interface {
	Put(id uuid.UUID, r io.Reader) error
	Open(id uuid.UUID) (io.ReadCloser, error)
	Remove(id uuid.UUID) error
	PutArtifact(name string, data []byte) (string, error)
	OpenArtifact(name string) (io.ReadCloser, error)
	ArtifactPath(name string) (string, bool)
}

type UploadsRepository interface {
	SaveFile(ctx context.Context, file *domain.UploadedFile) error
	FileByID(ctx context.Context, id uuid.UUID) (*domain.UploadedFile, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *domain.ImportTask) error
	UpdateTask(ctx context.Context, task *domain.ImportTask) error
	TaskByID(ctx context.Context, id uuid.UUID) (*domain.ImportTask, error)
}

type RowErrorsRepository interface {
	SaveRowErrors(ctx context.Context, taskID uuid.UUID, outcomes []*domain.RowOutcome) error
	RowErrorsByTask(ctx context.Context, taskID uuid.UUID, limit, offset uint64) ([]*domain.RowOutcome, int, error)
	AllRowErrorsByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.RowOutcome, error)
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ReportGenerator interface {
	GenerateSummary(outputPath string, task *domain.ImportTask, rowErrors []*domain.RowOutcome) error
}
