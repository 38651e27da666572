package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompanyRegistry is a mock implementation of port.CompanyRegistry.
type MockCompanyRegistry struct {
	mock.Mock
}

func (m *MockCompanyRegistry) LookupName(ctx context.Context, cnpj string) (string, error) {
	args := m.Called(ctx, cnpj)
	return args.String(0), args.Error(1)
}
