package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cigfip/internal/domain"
	"cigfip/internal/gfip"
	"cigfip/internal/service"
)

// MockFilingService is a mock implementation of service.FilingService.
type MockFilingService struct {
	mock.Mock
}

func (m *MockFilingService) Parse(ctx context.Context, input service.ParseInput) (*gfip.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gfip.Result), args.Error(1)
}

func (m *MockFilingService) ParseBatch(ctx context.Context, texts []string) ([]*gfip.Result, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*gfip.Result), args.Error(1)
}

func (m *MockFilingService) Extract(ctx context.Context, input service.ExtractInput) (*service.ProcessResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}

func (m *MockFilingService) Process(ctx context.Context, input *service.ProcessInput) (*service.ProcessResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}

func (m *MockFilingService) GetLatest(ctx context.Context, nit string) (*service.SubmissionView, error) {
	args := m.Called(ctx, nit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmissionView), args.Error(1)
}

func (m *MockFilingService) ListByPerson(ctx context.Context, nit string, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, nit, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockFilingService) GetByID(ctx context.Context, id uuid.UUID) (*service.SubmissionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmissionView), args.Error(1)
}

func (m *MockFilingService) ExportLatest(ctx context.Context, nit string, format domain.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, nit, format, w)
	return args.Error(0)
}
