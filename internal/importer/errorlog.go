package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/jszwec/csvutil"
)

// ErrorLogBuilder renders every recorded row failure of a terminal task into
// a downloadable CSV artifact. The artifact is built on first request and
// cached; repeated calls return the same file.
type ErrorLogBuilder struct {
	log       *slog.Logger
	tracker   *ProgressTracker
	rowErrors RowErrorsRepository
	store     FileStore
}

func NewErrorLogBuilder(log *slog.Logger, tracker *ProgressTracker, rowErrors RowErrorsRepository, store FileStore) *ErrorLogBuilder {
	return &ErrorLogBuilder{
		log:       log,
		tracker:   tracker,
		rowErrors: rowErrors,
		store:     store,
	}
}

// BuildErrorLog returns the artifact name of the task's error log.
func (b *ErrorLogBuilder) BuildErrorLog(ctx context.Context, taskID uuid.UUID) (string, error) {
	task, err := b.tracker.GetStatus(ctx, taskID)
	if err != nil {
		return "", err
	}

	if !task.Terminal() {
		return "", domain.ErrTaskNotTerminal
	}

	if task.Errored == 0 {
		return "", domain.ErrNoErrorsRecorded
	}

	name := ErrorLogArtifactName(taskID)
	if _, exists := b.store.ArtifactPath(name); exists {
		return name, nil
	}

	outcomes, err := b.rowErrors.AllRowErrorsByTask(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("failed to load row errors: %w", err)
	}

	data, err := csvutil.Marshal(outcomes)
	if err != nil {
		return "", fmt.Errorf("failed to encode error log: %w", err)
	}

	if _, err := b.store.PutArtifact(name, data); err != nil {
		return "", fmt.Errorf("failed to store error log: %w", err)
	}

	b.log.InfoContext(ctx, "built error log",
		slog.String("task_id", taskID.String()),
		slog.Int("rows", len(outcomes)),
	)

	return name, nil
}

// ErrorLogArtifactName is the artifact key of the error log of a task.
func ErrorLogArtifactName(taskID uuid.UUID) string {
	return fmt.Sprintf("import_errors_%s.csv", taskID)
}
