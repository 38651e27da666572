package port

import (
	"context"

	"github.com/google/uuid"

	"cigfip/internal/domain"
)

// SubmissionStore is the view of persistence available while a person's
// reconciliation lock is held.
type SubmissionStore interface {
	FindByFingerprint(ctx context.Context, nit, fingerprint string) (*domain.Submission, error)
	GetLatest(ctx context.Context, nit string) (*domain.Submission, error)
	Create(ctx context.Context, sub *domain.Submission) error
}

// SubmissionRepository persists record sets per person.
type SubmissionRepository interface {
	// RunLocked runs fn while holding an exclusive per-person lock, so that
	// reading the prior state and writing the new one cannot interleave with
	// another submission for the same NIT. fn's error rolls back its writes.
	RunLocked(ctx context.Context, nit string, fn func(store SubmissionStore) error) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	GetLatest(ctx context.Context, nit string) (*domain.Submission, error)
	ListByPerson(ctx context.Context, nit string, offset, limit int) ([]domain.Submission, int, error)
}
