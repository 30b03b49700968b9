package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"holdex/internal/types"
)

// MockStore implements indexer.Store for testing
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) InsertTransfers(ctx context.Context, transfers []*types.Transfer) error {
	args := m.Called(ctx, transfers)
	return args.Error(0)
}

func (m *MockStore) InsertBalances(ctx context.Context, chainID int64, balances []*types.Balance) error {
	args := m.Called(ctx, chainID, balances)
	return args.Error(0)
}

func (m *MockStore) IncrementBalance(ctx context.Context, chainID int64, tokenAddress, walletAddress string, delta types.Decimal) error {
	args := m.Called(ctx, chainID, tokenAddress, walletAddress, delta)
	return args.Error(0)
}

func (m *MockStore) ApplyTransfer(ctx context.Context, transfer *types.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockStore) DeleteTokenBalances(ctx context.Context, chainID int64, tokenAddress string) error {
	args := m.Called(ctx, chainID, tokenAddress)
	return args.Error(0)
}

func (m *MockStore) DeleteTokenTransfers(ctx context.Context, chainID int64, tokenAddress string) error {
	args := m.Called(ctx, chainID, tokenAddress)
	return args.Error(0)
}

func (m *MockStore) TopHolders(ctx context.Context, chainID int64, tokenAddress string, limit int) ([]*types.Balance, error) {
	args := m.Called(ctx, chainID, tokenAddress, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Balance), args.Error(1)
}
