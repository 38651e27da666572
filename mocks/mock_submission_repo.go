package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cigfip/internal/domain"
	"cigfip/internal/port"
)

// MockSubmissionStore is a mock implementation of port.SubmissionStore.
type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) FindByFingerprint(ctx context.Context, nit, fingerprint string) (*domain.Submission, error) {
	args := m.Called(ctx, nit, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionStore) GetLatest(ctx context.Context, nit string) (*domain.Submission, error) {
	args := m.Called(ctx, nit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionStore) Create(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// MockSubmissionRepo is a mock implementation of port.SubmissionRepository.
// RunLocked records the call and then hands Store to fn, unless the
// expectation returns an error.
type MockSubmissionRepo struct {
	mock.Mock
	Store *MockSubmissionStore
}

func (m *MockSubmissionRepo) RunLocked(ctx context.Context, nit string, fn func(store port.SubmissionStore) error) error {
	args := m.Called(ctx, nit)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Store)
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) GetLatest(ctx context.Context, nit string) (*domain.Submission, error) {
	args := m.Called(ctx, nit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) ListByPerson(ctx context.Context, nit string, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, nit, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}
