package postgresql

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const TableImportTasks = "import_tasks"

type TasksRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewTasksRepository(pool *pgxpool.Pool) *TasksRepository {
	return &TasksRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TasksRepository) CreateTask(ctx context.Context, task *domain.ImportTask) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableImportTasks).
		Columns(
			"id",
			"file_id",
			"strategy",
			"status",
			"total",
			"processed",
			"succeeded",
			"skipped",
			"errored",
			"error_message",
			"created_at",
			"completed_at",
		).
		Values(
			task.ID,
			task.FileID,
			task.Strategy,
			task.Status,
			task.Total,
			task.Processed,
			task.Succeeded,
			task.Skipped,
			task.Errored,
			task.ErrorMessage,
			task.CreatedAt,
			task.CompletedAt,
		).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	_, err = db.Exec(ctx, sql, args...)
	if err != nil {
		return executeQueryError(err)
	}

	return nil
}

func (r *TasksRepository) UpdateTask(ctx context.Context, task *domain.ImportTask) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableImportTasks).
		Set("status", task.Status).
		Set("total", task.Total).
		Set("processed", task.Processed).
		Set("succeeded", task.Succeeded).
		Set("skipped", task.Skipped).
		Set("errored", task.Errored).
		Set("error_message", task.ErrorMessage).
		Set("completed_at", task.CompletedAt).
		Where(sq.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	_, err = db.Exec(ctx, sql, args...)
	if err != nil {
		return executeQueryError(err)
	}

	return nil
}

func (r *TasksRepository) TaskByID(ctx context.Context, id uuid.UUID) (*domain.ImportTask, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(
			"id",
			"file_id",
			"strategy",
			"status",
			"total",
			"processed",
			"succeeded",
			"skipped",
			"errored",
			"error_message",
			"created_at",
			"completed_at",
		).
		From(TableImportTasks).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	task, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.ImportTask])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, collectRowsError(err)
	}

	return task, nil
}

// ResetRunningTasks marks tasks orphaned by a previous process as failed.
// There is no resumable checkpoint; the caller restarts the whole import.
func (r *TasksRepository) ResetRunningTasks(ctx context.Context) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableImportTasks).
		Set("status", domain.StatusFailed).
		Set("error_message", "interrupted by restart").
		Set("completed_at", sq.Expr("now()")).
		Where(sq.Eq{"status": []domain.Status{domain.StatusPending, domain.StatusRunning}}).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	_, err = db.Exec(ctx, sql, args...)
	if err != nil {
		return executeQueryError(err)
	}

	return nil
}
