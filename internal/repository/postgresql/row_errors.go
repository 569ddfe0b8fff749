package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const TableRowErrors = "import_row_errors"

type RowErrorsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewRowErrorsRepository(pool *pgxpool.Pool) *RowErrorsRepository {
	return &RowErrorsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RowErrorsRepository) SaveRowErrors(ctx context.Context, taskID uuid.UUID, outcomes []*domain.RowOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	db := extractDB(ctx, r.pool)

	copied, err := db.CopyFrom(ctx, pgx.Identifier{TableRowErrors}, []string{
		"task_id",
		"row_number",
		"name",
		"email",
		"error_message",
	}, pgx.CopyFromSlice(len(outcomes), func(i int) ([]any, error) {
		return []any{
			taskID,
			outcomes[i].Row,
			outcomes[i].Name,
			outcomes[i].Email,
			outcomes[i].Error,
		}, nil
	}))
	if err != nil {
		return fmt.Errorf("failed to save row errors: %w", err)
	}

	if copied != int64(len(outcomes)) {
		return fmt.Errorf("failed to save row errors: copied %d rows, expected %d", copied, len(outcomes))
	}

	return nil
}

func (r *RowErrorsRepository) RowErrorsByTask(
	ctx context.Context,
	taskID uuid.UUID,
	limit, offset uint64,
) ([]*domain.RowOutcome, int, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("COUNT(*)").
		From(TableRowErrors).
		Where(sq.Eq{"task_id": taskID}).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	var total int
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, -1, scanRowError(err)
	}

	sql, args, err = r.qb.
		Select(
			"row_number",
			"name",
			"email",
			"error_message",
		).
		From(TableRowErrors).
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("row_number ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, -1, executeQueryError(err)
	}

	outcomes, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.RowOutcome])
	if err != nil {
		return nil, -1, collectRowsError(err)
	}

	return outcomes, total, nil
}

func (r *RowErrorsRepository) AllRowErrorsByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.RowOutcome, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(
			"row_number",
			"name",
			"email",
			"error_message",
		).
		From(TableRowErrors).
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("row_number ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	outcomes, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.RowOutcome])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return outcomes, nil
}
