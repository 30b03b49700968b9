package indexer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"holdex/internal/errors"
	"holdex/internal/testing/mocks"
	"holdex/internal/types"
)

// setupTestTailer creates a TailerService with mocked dependencies and the
// channels its subscription will deliver on.
func setupTestTailer() (*TailerService, *mocks.MockBlockchainClient, *mocks.MockStore, chan types.Log, chan error) {
	mockClient := mocks.NewMockBlockchainClient()
	mockStore := mocks.NewMockStore()

	logChan := make(chan types.Log, 16)
	errChan := make(chan error, 16)

	mockClient.On("SubscribeLogs", mock.Anything, testToken, []string{types.ERC20TransferTopic}).
		Return((<-chan types.Log)(logChan), (<-chan error)(errChan), nil)

	service := NewTailerService(mockClient, mockStore, mocks.NewNopLogger())
	return service, mockClient, mockStore, logChan, errChan
}

func TestTail_AppliesTransfersAtomically(t *testing.T) {
	t.Parallel()

	service, _, mockStore, logChan, _ := setupTestTailer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	retracted := transferLog(120, walletA, walletB, 5)
	retracted.Deleted = true
	logChan <- retracted
	logChan <- transferLog(121, walletA, walletB, 2000000000)

	// Only the live log reaches the store; applying it ends the test.
	mockStore.On("ApplyTransfer", mock.Anything, mock.MatchedBy(func(transfer *types.Transfer) bool {
		return transfer.From == walletA && transfer.To == walletB && transfer.BlockNumber == 121
	})).Run(func(args mock.Arguments) {
		cancel()
	}).Return(nil).Once()

	err := service.Tail(ctx, testToken)
	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestTail_ProtocolMismatchAborts(t *testing.T) {
	t.Parallel()

	service, _, _, _, errChan := setupTestTailer()

	errChan <- errors.NewProtocolMismatchError("expected subscription acknowledgment")

	err := service.Tail(context.Background(), testToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProtocolMismatch))
}

func TestTail_TransportErrorsAreNotFatal(t *testing.T) {
	t.Parallel()

	service, _, mockStore, logChan, errChan := setupTestTailer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A transport error while the stream reconnects must not end the run;
	// the transfer delivered afterwards is still applied.
	errChan <- errors.NewRPCError(assert.AnError)
	logChan <- transferLog(130, walletB, walletC, 7)

	mockStore.On("ApplyTransfer", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
	}).Return(nil).Once()

	err := service.Tail(ctx, testToken)
	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestTail_PersistenceErrorIsFatal(t *testing.T) {
	t.Parallel()

	service, _, mockStore, logChan, _ := setupTestTailer()

	logChan <- transferLog(140, walletA, walletC, 9)

	dbErr := errors.NewDatabaseError(assert.AnError)
	mockStore.On("ApplyTransfer", mock.Anything, mock.Anything).Return(dbErr).Once()

	err := service.Tail(context.Background(), testToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func TestTail_ClosedSubscriptionSurfacesTerminalError(t *testing.T) {
	t.Parallel()

	service, _, _, logChan, errChan := setupTestTailer()

	terminal := errors.NewRPCError(assert.AnError)
	errChan <- terminal
	close(logChan)

	err := service.Tail(context.Background(), testToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRPCError))
}

func TestTail_CancelledContextStopsCleanly(t *testing.T) {
	t.Parallel()

	service, _, _, _, _ := setupTestTailer()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := service.Tail(ctx, testToken)
	require.NoError(t, err)
}
