package mocks

import (
	"context"

	"github.com/seu-repo/hawala-bot/internal/domain"
)

// MockBranchRepository is a mock implementation of BranchRepository
type MockBranchRepository struct {
	FindByNameFunc  func(ctx context.Context, name string) (*domain.Branch, error)
	SeedIfEmptyFunc func(ctx context.Context, names []string) error
}

func (m *MockBranchRepository) FindByName(ctx context.Context, name string) (*domain.Branch, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockBranchRepository) SeedIfEmpty(ctx context.Context, names []string) error {
	if m.SeedIfEmptyFunc != nil {
		return m.SeedIfEmptyFunc(ctx, names)
	}
	return nil
}

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	CreateFunc             func(ctx context.Context, transfer *domain.Transfer) error
	SumFromBranchTodayFunc func(ctx context.Context, branchID uint) (float64, error)
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, transfer)
	}
	return nil
}

func (m *MockTransferRepository) SumFromBranchToday(ctx context.Context, branchID uint) (float64, error) {
	if m.SumFromBranchTodayFunc != nil {
		return m.SumFromBranchTodayFunc(ctx, branchID)
	}
	return 0, nil
}
