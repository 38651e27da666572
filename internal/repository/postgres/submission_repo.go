package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"cigfip/internal/domain"
	"cigfip/internal/port"
)

const submissionColumns = `id, nit, fingerprint, layout, header, records, record_count,
	complements, rectifications, unchanged, prior_id, source_name, archive_key, created_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

// lockKey namespaces the advisory lock so it cannot collide with other users
// of pg_advisory_xact_lock on the same database.
func lockKey(nit string) string {
	return "cigfip.submission:" + nit
}

func (r *submissionRepo) RunLocked(ctx context.Context, nit string, fn func(store port.SubmissionStore) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("submissionRepo.RunLocked: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKey(nit)); err != nil {
		return fmt.Errorf("submissionRepo.RunLocked: lock: %w", err)
	}

	if err := fn(&submissionStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("submissionRepo.RunLocked: commit: %w", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var sub domain.Submission
	err := sqlx.GetContext(ctx, r.db, &sub,
		"SELECT "+submissionColumns+" FROM submissions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	return &sub, nil
}

func (r *submissionRepo) GetLatest(ctx context.Context, nit string) (*domain.Submission, error) {
	return getLatest(ctx, r.db, nit)
}

func (r *submissionRepo) ListByPerson(ctx context.Context, nit string, offset, limit int) ([]domain.Submission, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM submissions WHERE nit = $1", nit)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByPerson count: %w", err)
	}

	var subs []domain.Submission
	err = r.db.SelectContext(ctx, &subs,
		"SELECT "+submissionColumns+" FROM submissions WHERE nit = $1 ORDER BY seq DESC LIMIT $2 OFFSET $3",
		nit, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByPerson: %w", err)
	}
	return subs, total, nil
}

// submissionStore runs queries inside the transaction opened by RunLocked.
type submissionStore struct {
	q querier
}

func (s *submissionStore) FindByFingerprint(ctx context.Context, nit, fingerprint string) (*domain.Submission, error) {
	var sub domain.Submission
	err := sqlx.GetContext(ctx, s.q, &sub,
		"SELECT "+submissionColumns+" FROM submissions WHERE nit = $1 AND fingerprint = $2",
		nit, fingerprint)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionStore.FindByFingerprint: %w", err)
	}
	return &sub, nil
}

func (s *submissionStore) GetLatest(ctx context.Context, nit string) (*domain.Submission, error) {
	return getLatest(ctx, s.q, nit)
}

func (s *submissionStore) Create(ctx context.Context, sub *domain.Submission) error {
	sub.CreatedAt = time.Now().UTC()

	query := `INSERT INTO submissions (
		id, nit, fingerprint, layout, header, records, record_count,
		complements, rectifications, unchanged, prior_id, source_name, archive_key, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13, $14
	)`

	_, err := s.q.ExecContext(ctx, query,
		sub.ID, sub.NIT, sub.Fingerprint, sub.Layout, sub.Header, sub.Records, sub.RecordCount,
		sub.Complements, sub.Rectifications, sub.Unchanged, sub.PriorID, sub.SourceName, sub.ArchiveKey, sub.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSubmission
		}
		return fmt.Errorf("submissionStore.Create: %w", err)
	}
	return nil
}

func getLatest(ctx context.Context, q sqlx.QueryerContext, nit string) (*domain.Submission, error) {
	var sub domain.Submission
	err := sqlx.GetContext(ctx, q, &sub,
		"SELECT "+submissionColumns+" FROM submissions WHERE nit = $1 ORDER BY seq DESC LIMIT 1", nit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetLatest: %w", err)
	}
	return &sub, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
