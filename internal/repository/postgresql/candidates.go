package postgresql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const TableCandidates = "candidates"

var candidateColumns = []string{
	"email",
	"full_name",
	"phone",
	"city",
	"zip_code",
	"linkedin",
	"cpf",
	"current_position",
	"academic_degree",
	"work_model",
	"salary_notes",
	"accepts_pj",
	"is_pcd",
	"has_drivers_license",
	"contract_signed",
	"minimum_salary",
	"languages",
	"interview_date",
}

type CandidatesRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewCandidatesRepository(pool *pgxpool.Pool) *CandidatesRepository {
	return &CandidatesRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *CandidatesRepository) FindIDByEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("id").
		From(TableCandidates).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return uuid.Nil, false, createQueryError(err)
	}

	var id uuid.UUID
	if err := db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, scanRowError(err)
	}

	return id, true, nil
}

func (r *CandidatesRepository) Create(ctx context.Context, candidate *domain.Candidate) (uuid.UUID, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableCandidates).
		Columns(candidateColumns...).
		Values(candidateValues(candidate)...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, createQueryError(err)
	}

	var id uuid.UUID
	if err := db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrDuplicateKey, candidate.Email)
		}
		return uuid.Nil, executeQueryError(err)
	}

	return id, nil
}

func (r *CandidatesRepository) Update(ctx context.Context, id uuid.UUID, candidate *domain.Candidate) error {
	db := extractDB(ctx, r.pool)

	builder := r.qb.
		Update(TableCandidates).
		Where(sq.Eq{"id": id})

	values := candidateValues(candidate)
	for i, column := range candidateColumns {
		builder = builder.Set(column, values[i])
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return createQueryError(err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, candidate.Email)
		}
		return executeQueryError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCandidateNotFound
	}

	return nil
}

func (r *CandidatesRepository) CandidateByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(append([]string{"id"}, candidateColumns...)...).
		From(TableCandidates).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	candidate, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.Candidate])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, collectRowsError(err)
	}

	return candidate, nil
}

func candidateValues(c *domain.Candidate) []any {
	return []any{
		c.Email,
		c.FullName,
		c.Phone,
		c.City,
		c.ZipCode,
		c.Linkedin,
		c.CPF,
		c.CurrentPosition,
		c.AcademicDegree,
		c.WorkModel,
		c.SalaryNotes,
		c.AcceptsPJ,
		c.IsPCD,
		c.HasDrivers,
		c.ContractSigned,
		c.MinimumSalary,
		c.Languages,
		c.InterviewDate,
	}
}
