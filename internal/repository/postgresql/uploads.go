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

const TableUploads = "uploads"

type UploadsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewUploadsRepository(pool *pgxpool.Pool) *UploadsRepository {
	return &UploadsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UploadsRepository) SaveFile(ctx context.Context, file *domain.UploadedFile) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableUploads).
		Columns(
			"id",
			"name",
			"size",
			"content_type",
			"uploaded_at",
		).
		Values(
			file.ID,
			file.Name,
			file.Size,
			file.ContentType,
			file.UploadedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			size = EXCLUDED.size,
			content_type = EXCLUDED.content_type,
			uploaded_at = EXCLUDED.uploaded_at
		`).
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

func (r *UploadsRepository) FileByID(ctx context.Context, id uuid.UUID) (*domain.UploadedFile, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(
			"id",
			"name",
			"size",
			"content_type",
			"uploaded_at",
		).
		From(TableUploads).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	file, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.UploadedFile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, collectRowsError(err)
	}

	return file, nil
}
