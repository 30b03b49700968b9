package indexer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"holdex/internal/errors"
	"holdex/internal/testing/mocks"
	"holdex/internal/types"
)

func setupTestService() (*Service, *mocks.MockBlockchainClient, *mocks.MockStore) {
	mockClient := mocks.NewMockBlockchainClient()
	mockStore := mocks.NewMockStore()

	mockClient.On("Chain").Return(types.Chain{ID: testChainID, Type: types.ChainTypeEthereum}).Maybe()

	service := NewService(mockClient, mockStore, mocks.NewNopLogger())
	return service, mockClient, mockStore
}

func TestRunIndexing_InvalidAddress(t *testing.T) {
	t.Parallel()

	service, mockClient, _ := setupTestService()

	invalidErr := errors.NewInvalidAddressError("not-an-address")
	mockClient.On("ToChecksum", "not-an-address").Return("", invalidErr).Once()

	err := service.RunIndexing(context.Background(), "not-an-address", true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidAddress))
}

func TestRunIndexing_HeadLookupFailure(t *testing.T) {
	t.Parallel()

	service, mockClient, _ := setupTestService()

	mockClient.On("ToChecksum", testToken).Return(types.ChecksumAddress(testToken), nil).Once()
	mockClient.On("GetLatestBlock", mock.Anything).Return(uint64(0), errors.NewRPCError(assert.AnError)).Once()

	err := service.RunIndexing(context.Background(), testToken, true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRPCError))
}

func TestTopHolders_DelegatesWithNormalizedAddress(t *testing.T) {
	t.Parallel()

	service, _, mockStore := setupTestService()

	expected := []*types.Balance{
		{ChainID: testChainID, WalletAddress: walletA, TokenAddress: testToken, Balance: types.ZeroDecimal()},
	}

	// The mixed-case input must reach the store lowercased.
	mockStore.On("TopHolders", mock.Anything, testChainID, testToken, 10).Return(expected, nil).Once()

	holders, err := service.TopHolders(context.Background(), types.ChecksumAddress(testToken), 10)
	require.NoError(t, err)
	assert.Equal(t, expected, holders)
	mockStore.AssertExpectations(t)
}
