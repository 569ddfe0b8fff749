package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

const errorPreviewLimit = 50

// ImportOrchestrator runs one asynchronous execution per task: Start
// registers the task and returns its id immediately, the row loop proceeds
// in the background and publishes counters to the progress tracker after
// every row. Row-level failures never abort the batch; only infrastructure
// faults (losing the stored file mid-stream) mark a task failed.
type ImportOrchestrator struct {
	log       *slog.Logger
	store     FileStore
	uploads   UploadsRepository
	records   RecordStore
	tasks     TaskRepository
	rowErrors RowErrorsRepository
	tx        Transactor
	tracker   *ProgressTracker
	resolver  *DuplicateResolver
	reports   ReportGenerator

	wg sync.WaitGroup
}

func NewImportOrchestrator(
	log *slog.Logger,
	store FileStore,
	uploads UploadsRepository,
	records RecordStore,
	tasks TaskRepository,
	rowErrors RowErrorsRepository,
	tx Transactor,
	tracker *ProgressTracker,
	reports ReportGenerator,
) *ImportOrchestrator {
	return &ImportOrchestrator{
		log:       log,
		store:     store,
		uploads:   uploads,
		records:   records,
		tasks:     tasks,
		rowErrors: rowErrors,
		tx:        tx,
		tracker:   tracker,
		resolver:  NewDuplicateResolver(records),
		reports:   reports,
	}
}

// Start validates the request, creates the task in pending state and spawns
// its execution. The returned id is immediately pollable.
func (o *ImportOrchestrator) Start(
	ctx context.Context,
	fileID uuid.UUID,
	mapping map[string]string,
	strategy domain.DuplicateStrategy,
) (uuid.UUID, error) {
	if _, err := domain.ParseStrategy(string(strategy)); err != nil {
		return uuid.Nil, err
	}

	if err := validateMapping(mapping); err != nil {
		return uuid.Nil, err
	}

	if _, err := o.uploads.FileByID(ctx, fileID); err != nil {
		return uuid.Nil, err
	}

	task := &domain.ImportTask{
		ID:        uuid.New(),
		FileID:    fileID,
		Strategy:  strategy,
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
	}

	if err := o.tasks.CreateTask(ctx, task); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create task: %w", err)
	}

	o.tracker.Publish(task)

	if !uniqueKeyMapped(mapping) {
		o.log.WarnContext(ctx, "unique key field is not mapped, every row will fail validation",
			slog.String("task_id", task.ID.String()),
		)
	}

	// The execution must outlive the request that started it.
	runCtx := context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(runCtx, task, mapping)
	}()

	return task.ID, nil
}

// Wait blocks until all in-flight executions finish. Used on shutdown and in
// tests.
func (o *ImportOrchestrator) Wait() {
	o.wg.Wait()
}

// Result materializes the terminal summary of a finished task.
func (o *ImportOrchestrator) Result(ctx context.Context, taskID uuid.UUID) (*domain.ImportResult, error) {
	task, err := o.tracker.GetStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.Terminal() {
		return nil, domain.ErrTaskNotTerminal
	}

	outcomes, count, err := o.rowErrors.RowErrorsByTask(ctx, taskID, errorPreviewLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load row errors: %w", err)
	}

	return &domain.ImportResult{
		TaskID:     task.ID,
		Status:     task.Status,
		Total:      task.Total,
		Success:    task.Succeeded,
		Skipped:    task.Skipped,
		Errors:     outcomes,
		ErrorCount: count,
		HasLog:     count > 0,
	}, nil
}

func (o *ImportOrchestrator) run(ctx context.Context, task *domain.ImportTask, mapping map[string]string) {
	log := o.log.With(
		slog.String("task_id", task.ID.String()),
		slog.String("file_id", task.FileID.String()),
		slog.String("strategy", string(task.Strategy)),
	)

	task.Status = domain.StatusRunning
	o.publish(ctx, task, true)

	log.InfoContext(ctx, "import started")

	header, rows, err := o.readFile(task.FileID)
	if err != nil {
		o.fail(ctx, log, task, err)
		return
	}

	task.Total = len(rows)
	o.publish(ctx, task, false)

	outcomes := make([]*domain.RowOutcome, 0)

	for i, row := range rows {
		// 1-indexed over the file, header row included.
		ordinal := i + 2

		if outcome := o.processRow(ctx, task, header, row, ordinal, mapping); outcome != nil {
			outcomes = append(outcomes, outcome)
		}

		task.Processed++
		o.tracker.Publish(task)
	}

	now := time.Now()
	task.Status = domain.StatusSucceeded
	task.CompletedAt = &now

	err = o.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := o.rowErrors.SaveRowErrors(ctx, task.ID, outcomes); err != nil {
			return fmt.Errorf("failed to save row errors: %w", err)
		}

		if err := o.tasks.UpdateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		return nil
	})
	if err != nil {
		o.fail(ctx, log, task, err)
		return
	}

	o.tracker.Publish(task)

	o.generateSummary(ctx, log, task, outcomes)
	o.cleanupFile(ctx, log, task.FileID)

	log.InfoContext(ctx, "import finished",
		slog.Int("total", task.Total),
		slog.Int("succeeded", task.Succeeded),
		slog.Int("skipped", task.Skipped),
		slog.Int("errored", task.Errored),
	)
}

// processRow handles one data row and returns its failure outcome, nil on
// success or skip.
func (o *ImportOrchestrator) processRow(
	ctx context.Context,
	task *domain.ImportTask,
	header, row []string,
	ordinal int,
	mapping map[string]string,
) *domain.RowOutcome {
	candidate := &domain.Candidate{}

	for i, col := range header {
		target := mapping[col]
		if target == "" || i >= len(row) {
			continue
		}

		// Unknown targets were rejected at Start.
		_ = candidate.Apply(target, row[i])
	}

	outcome := func(reason string) *domain.RowOutcome {
		task.Errored++
		return &domain.RowOutcome{
			Row:   ordinal,
			Name:  candidate.FullName,
			Email: candidate.Email,
			Error: reason,
		}
	}

	if err := candidate.Validate(); err != nil {
		return outcome(err.Error())
	}

	resolution, err := o.resolver.Resolve(ctx, candidate.Email, task.Strategy)
	if err != nil {
		return outcome(err.Error())
	}

	switch resolution.Decision {
	case DecisionCreate:
		if _, err := o.records.Create(ctx, candidate); err != nil {
			return outcome(err.Error())
		}
		task.Succeeded++

	case DecisionUpdate:
		if err := o.records.Update(ctx, resolution.ExistingID, candidate); err != nil {
			return outcome(err.Error())
		}
		task.Succeeded++

	case DecisionSkip:
		task.Skipped++

	case DecisionReject:
		return outcome(fmt.Sprintf("%s: %s", domain.ErrDuplicateKey, candidate.Email))
	}

	return nil
}

func (o *ImportOrchestrator) readFile(fileID uuid.UUID) (header []string, rows [][]string, err error) {
	f, err := o.store.Open(fileID)
	if err != nil {
		return nil, nil, err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	buffered := bufio.NewReader(f)
	if prefix, peekErr := buffered.Peek(len(byteOrderMark)); peekErr == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = buffered.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrMalformedFile, err)
	}

	if len(records) == 0 {
		return nil, nil, domain.ErrNoHeaderRow
	}

	header = make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	return header, records[1:], nil
}

// publish pushes the state to the tracker and, when persist is set, to the
// task repository. Persistence failures on intermediate states are logged
// and tolerated; the in-memory state stays authoritative until terminal.
func (o *ImportOrchestrator) publish(ctx context.Context, task *domain.ImportTask, persist bool) {
	o.tracker.Publish(task)

	if !persist {
		return
	}

	if err := o.tasks.UpdateTask(ctx, task); err != nil {
		o.log.ErrorContext(ctx, "failed to persist task state",
			slog.String("task_id", task.ID.String()),
			slog.String("err", err.Error()),
		)
	}
}

func (o *ImportOrchestrator) fail(ctx context.Context, log *slog.Logger, task *domain.ImportTask, cause error) {
	log.ErrorContext(ctx, "import failed", slog.String("err", cause.Error()))

	now := time.Now()
	task.Status = domain.StatusFailed
	task.ErrorMessage = cause.Error()
	task.CompletedAt = &now

	if err := o.tasks.UpdateTask(ctx, task); err != nil {
		log.ErrorContext(ctx, "failed to persist failed task", slog.String("err", err.Error()))
	}

	o.tracker.Publish(task)
}

func (o *ImportOrchestrator) generateSummary(ctx context.Context, log *slog.Logger, task *domain.ImportTask, outcomes []*domain.RowOutcome) {
	if o.reports == nil {
		return
	}

	path, _ := o.store.ArtifactPath(SummaryArtifactName(task.ID))

	if err := o.reports.GenerateSummary(path, task, outcomes); err != nil {
		log.ErrorContext(ctx, "failed to generate summary report", slog.String("err", err.Error()))
	}
}

func (o *ImportOrchestrator) cleanupFile(ctx context.Context, log *slog.Logger, fileID uuid.UUID) {
	if err := o.store.Remove(fileID); err != nil {
		log.WarnContext(ctx, "failed to remove consumed file", slog.String("err", err.Error()))
	}
}

// SummaryArtifactName is the artifact key of the PDF summary of a task.
func SummaryArtifactName(taskID uuid.UUID) string {
	return fmt.Sprintf("import_summary_%s.pdf", taskID)
}

func validateMapping(mapping map[string]string) error {
	for col, target := range mapping {
		if target == "" {
			continue
		}
		if !domain.KnownField(target) {
			return fmt.Errorf("%w: column %q -> %q", domain.ErrUnknownField, col, target)
		}
	}
	return nil
}

func uniqueKeyMapped(mapping map[string]string) bool {
	for _, target := range mapping {
		if target == domain.FieldEmail {
			return true
		}
	}
	return false
}
