package indexer

import (
	"context"
	"sort"
	"time"

	"holdex/internal/core/blockchain"
	"holdex/internal/core/parser"
	"holdex/internal/logger"
	"holdex/internal/types"
)

// Chunk sizing and retry parameters for the adaptive scan. eth_getLogs is
// only safe when the block range stays small or the returned log count stays
// bounded, so the chunk grows while responses are light and shrinks when a
// chunk comes back heavy.
const (
	// DefaultChunkSize is the block range of the first scan window
	DefaultChunkSize uint64 = 2000

	minChunkSize uint64 = 2000
	maxChunkSize uint64 = 50000

	chunkIncrease = 1.5
	chunkDecrease = 0.5

	// logsDecreaseThreshold is the log count above which the chunk shrinks
	logsDecreaseThreshold = 5000

	defaultRetries    = 7
	defaultRetryDelay = 1 * time.Second
)

// BackfillService reconstructs a token's transfer history and balance
// snapshot by scanning a historical block range in adaptively sized chunks.
type BackfillService struct {
	chainID int64
	client  blockchain.Client
	parser  *parser.TokenParser
	store   Store
	log     logger.Logger

	retries    int
	retryDelay time.Duration
}

// NewBackfillService creates a new BackfillService
func NewBackfillService(client blockchain.Client, store Store, log logger.Logger) *BackfillService {
	return &BackfillService{
		chainID:    client.Chain().ID,
		client:     client,
		parser:     parser.NewTokenParser(),
		store:      store,
		log:        log,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
	}
}

// Backfill replaces all persisted state of the token with the transfers
// found in [startBlock, endBlock] and the balance snapshot computed from
// them. Any prior rows for the token are deleted first, which makes the
// operation safe to restart after a failure.
func (s *BackfillService) Backfill(ctx context.Context, tokenAddress string, startBlock, endBlock uint64) error {
	token := types.NormalizeAddress(tokenAddress)

	if err := s.truncateToken(ctx, token); err != nil {
		return err
	}

	transfers, err := s.progressiveBackfill(ctx, token, startBlock, endBlock)
	if err != nil {
		return err
	}

	balances := s.computeBalances(transfers)
	return s.store.InsertBalances(ctx, s.chainID, balances)
}

// truncateToken drops the token's balances and transfers.
func (s *BackfillService) truncateToken(ctx context.Context, token string) error {
	if err := s.store.DeleteTokenBalances(ctx, s.chainID, token); err != nil {
		return err
	}
	return s.store.DeleteTokenTransfers(ctx, s.chainID, token)
}

// progressiveBackfill scans the block range chunk by chunk, persisting each
// chunk's transfers before moving on. The chunk size adapts to the returned
// log counts; the retry wrapper may process a smaller window than requested,
// in which case the next chunk resumes right after the window actually
// covered.
func (s *BackfillService) progressiveBackfill(ctx context.Context, token string, startBlock, endBlock uint64) ([]*types.Transfer, error) {
	currentBlock := startBlock
	chunkSize := DefaultChunkSize

	var accumTransfers []*types.Transfer

	for currentBlock <= endBlock {
		estimatedEnd := currentBlock + chunkSize - 1
		if estimatedEnd > endBlock {
			estimatedEnd = endBlock
		}

		s.log.Info("Scanning blocks",
			logger.Uint64("from_block", currentBlock),
			logger.Uint64("to_block", estimatedEnd),
			logger.Uint64("chunk_size", chunkSize))

		actualEnd, logs, err := s.retryGetLogs(ctx, token, currentBlock, estimatedEnd)
		if err != nil {
			return nil, err
		}

		transfers, err := s.decodeLogs(logs)
		if err != nil {
			return nil, err
		}

		if err := s.store.InsertTransfers(ctx, transfers); err != nil {
			return nil, err
		}

		accumTransfers = append(accumTransfers, transfers...)

		s.log.Info("Chunk scanned",
			logger.Uint64("from_block", currentBlock),
			logger.Uint64("to_block", actualEnd),
			logger.Int("events_found", len(transfers)),
			logger.Int("events_accum", len(accumTransfers)))

		chunkSize = estimateNextChunkSize(chunkSize, len(logs))

		// Resume right after the window the retry wrapper actually served.
		currentBlock = actualEnd + 1
	}

	return accumTransfers, nil
}

// retryGetLogs queries logs for [startBlock, endBlock], halving the window
// on every failure while keeping the start fixed. The returned block is the
// end of the window that actually succeeded; the caller must resume from
// the block after it.
func (s *BackfillService) retryGetLogs(ctx context.Context, token string, startBlock, endBlock uint64) (uint64, []types.Log, error) {
	currentEnd := endBlock

	for i := 0; i < s.retries; i++ {
		logs, err := s.client.GetLogs(ctx, blockchain.LogFilter{
			FromBlock: startBlock,
			ToBlock:   currentEnd,
			Address:   token,
			Topics:    []string{types.ERC20TransferTopic},
		})
		if err == nil {
			return currentEnd, logs, nil
		}

		if i == s.retries-1 {
			s.log.Warn("Out of retries", logger.Error(err))
			return 0, nil, err
		}

		s.log.Warn("Retrying log query with halved range",
			logger.Uint64("from_block", startBlock),
			logger.Uint64("to_block", currentEnd),
			logger.Uint64("range", currentEnd-startBlock),
			logger.Duration("delay", s.retryDelay),
			logger.Error(err))

		// Halve the window; let the backend recover before the next attempt.
		currentEnd = startBlock + (currentEnd-startBlock)/2

		select {
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}

	return 0, nil, ctx.Err()
}

// decodeLogs decodes every live log; reorg-retracted logs are skipped.
// A log that fails to decode aborts the run, since the topic filter should
// only match well-formed Transfer events.
func (s *BackfillService) decodeLogs(logs []types.Log) ([]*types.Transfer, error) {
	transfers := make([]*types.Transfer, 0, len(logs))
	for i := range logs {
		if logs[i].Deleted {
			continue
		}
		transfer, err := s.parser.DecodeLog(&logs[i])
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}

// balanceKey identifies one wallet's holding of one token.
type balanceKey struct {
	token  string
	wallet string
}

// computeBalances folds the transfers into per-wallet signed sums. Each
// transfer credits the receiver and debits the sender; the null address is
// dropped from the result so mints and burns never rank as holders.
func (s *BackfillService) computeBalances(transfers []*types.Transfer) []*types.Balance {
	if len(transfers) == 0 {
		return nil
	}

	sums := make(map[balanceKey]types.Decimal)
	for _, transfer := range transfers {
		toKey := balanceKey{token: transfer.TokenAddress, wallet: transfer.To}
		sums[toKey] = sums[toKey].AddDec(transfer.Value)

		fromKey := balanceKey{token: transfer.TokenAddress, wallet: transfer.From}
		sums[fromKey] = sums[fromKey].AddDec(transfer.Value.Neg())
	}

	balances := make([]*types.Balance, 0, len(sums))
	for key, sum := range sums {
		if types.IsNullAddress(key.wallet) {
			continue
		}
		balances = append(balances, &types.Balance{
			ChainID:       s.chainID,
			WalletAddress: key.wallet,
			TokenAddress:  key.token,
			Balance:       sum,
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		if balances[i].TokenAddress != balances[j].TokenAddress {
			return balances[i].TokenAddress < balances[j].TokenAddress
		}
		return balances[i].WalletAddress < balances[j].WalletAddress
	})

	return balances
}

// estimateNextChunkSize adapts the scan window to the last response size,
// clamped to [minChunkSize, maxChunkSize].
func estimateNextChunkSize(currentChunkSize uint64, logCount int) uint64 {
	next := float64(currentChunkSize)
	if logCount > logsDecreaseThreshold {
		next *= chunkDecrease
	} else {
		next *= chunkIncrease
	}

	chunk := uint64(next)
	if chunk < minChunkSize {
		chunk = minChunkSize
	}
	if chunk > maxChunkSize {
		chunk = maxChunkSize
	}
	return chunk
}
