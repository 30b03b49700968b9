package indexer

import (
	"context"

	"holdex/internal/core/blockchain"
	"holdex/internal/logger"
	"holdex/internal/types"
)

// InitBlock is the block the historical backfill starts from. It
// approximates the creation height of contracts deployed after mid-2020;
// finding the actual creation block would need an explorer API lookup.
const InitBlock uint64 = 10_000_000

// Service ties the backfill engine, the tailer and the holder queries
// together behind the operations the CLI exposes.
type Service struct {
	client   blockchain.Client
	store    Store
	backfill *BackfillService
	tailer   *TailerService
	log      logger.Logger
}

// NewService creates a new indexing Service
func NewService(client blockchain.Client, store Store, log logger.Logger) *Service {
	return &Service{
		client:   client,
		store:    store,
		backfill: NewBackfillService(client, store, log),
		tailer:   NewTailerService(client, store, log),
		log:      log,
	}
}

// RunIndexing backfills the contract's transfer history up to the current
// head when requested, then tails the live log stream until ctx is
// cancelled. Events landing between the end of the backfill and the start
// of the subscription are not reconciled; restarting with backfill enabled
// rebuilds a consistent state.
func (s *Service) RunIndexing(ctx context.Context, contractAddress string, backfill bool) error {
	checksumAddress, err := s.client.ToChecksum(contractAddress)
	if err != nil {
		return err
	}

	currentBlock, err := s.client.GetLatestBlock(ctx)
	if err != nil {
		return err
	}

	if backfill {
		s.log.Info("Backfilling transfers",
			logger.String("contract_address", checksumAddress),
			logger.Uint64("from_block", InitBlock),
			logger.Uint64("to_block", currentBlock))

		if err := s.backfill.Backfill(ctx, checksumAddress, InitBlock, currentBlock); err != nil {
			return err
		}
	} else {
		s.log.Info("Skipped backfill", logger.String("contract_address", checksumAddress))
	}

	return s.tailer.Tail(ctx, checksumAddress)
}

// TopHolders returns the token's wallets ranked by balance.
func (s *Service) TopHolders(ctx context.Context, tokenAddress string, limit int) ([]*types.Balance, error) {
	return s.store.TopHolders(ctx, s.client.Chain().ID, types.NormalizeAddress(tokenAddress), limit)
}
