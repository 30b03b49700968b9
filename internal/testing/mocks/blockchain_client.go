package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"holdex/internal/core/blockchain"
	"holdex/internal/types"
)

// MockBlockchainClient implements blockchain.Client for testing
type MockBlockchainClient struct {
	mock.Mock
}

// NewMockBlockchainClient creates a new MockBlockchainClient
func NewMockBlockchainClient() *MockBlockchainClient {
	return &MockBlockchainClient{}
}

func (m *MockBlockchainClient) GetLatestBlock(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockBlockchainClient) GetLogs(ctx context.Context, filter blockchain.LogFilter) ([]types.Log, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Log), args.Error(1)
}

func (m *MockBlockchainClient) SubscribeLogs(ctx context.Context, address string, topics []string) (<-chan types.Log, <-chan error, error) {
	args := m.Called(ctx, address, topics)
	var logChan <-chan types.Log
	var errChan <-chan error
	if args.Get(0) != nil {
		logChan = args.Get(0).(<-chan types.Log)
	}
	if args.Get(1) != nil {
		errChan = args.Get(1).(<-chan error)
	}
	return logChan, errChan, args.Error(2)
}

func (m *MockBlockchainClient) ToChecksum(address string) (string, error) {
	args := m.Called(address)
	return args.String(0), args.Error(1)
}

func (m *MockBlockchainClient) Chain() types.Chain {
	args := m.Called()
	return args.Get(0).(types.Chain)
}

func (m *MockBlockchainClient) Close() {
	m.Called()
}
