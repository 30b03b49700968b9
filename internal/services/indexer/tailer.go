package indexer

import (
	"context"
	"fmt"

	"holdex/internal/core/blockchain"
	"holdex/internal/core/parser"
	"holdex/internal/errors"
	"holdex/internal/logger"
	"holdex/internal/types"
)

// TailerService consumes a live log subscription for one token and applies
// each transfer incrementally: the transfer row and both balance deltas
// commit together.
type TailerService struct {
	client blockchain.Client
	parser *parser.TokenParser
	store  Store
	log    logger.Logger
}

// NewTailerService creates a new TailerService
func NewTailerService(client blockchain.Client, store Store, log logger.Logger) *TailerService {
	return &TailerService{
		client: client,
		parser: parser.NewTokenParser(),
		store:  store,
		log:    log,
	}
}

// Tail subscribes to Transfer logs of the token and processes them until
// ctx is cancelled. Reorg-retracted logs are ignored. Transport errors are
// logged while the subscription reconnects underneath; a protocol mismatch
// or a persistence failure ends the run with an error.
func (s *TailerService) Tail(ctx context.Context, tokenAddress string) error {
	token := types.NormalizeAddress(tokenAddress)

	logChan, errChan, err := s.client.SubscribeLogs(ctx, token, []string{types.ERC20TransferTopic})
	if err != nil {
		return err
	}

	s.log.Info("Real-time indexing started", logger.String("token_address", token))

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if errors.IsCode(err, errors.ErrCodeProtocolMismatch) {
				return err
			}
			s.log.Warn("Log subscription error", logger.Error(err))

		case logEntry, ok := <-logChan:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return s.terminalError(errChan)
			}

			if logEntry.Deleted {
				continue
			}

			if err := s.processLog(ctx, &logEntry); err != nil {
				return err
			}
		}
	}
}

// processLog decodes one live log and applies it to the store.
func (s *TailerService) processLog(ctx context.Context, logEntry *types.Log) error {
	transfer, err := s.parser.DecodeLog(logEntry)
	if err != nil {
		return err
	}

	if err := s.store.ApplyTransfer(ctx, transfer); err != nil {
		return err
	}

	s.log.Info("New transfer",
		logger.Uint64("block_number", transfer.BlockNumber),
		logger.String("tx_hash", transfer.TxHash),
		logger.String("tx_from", transfer.From),
		logger.String("tx_to", transfer.To),
		logger.String("value", transfer.Value.String()))

	return nil
}

// terminalError surfaces the error that closed the subscription, when the
// stream managed to report one before shutting down.
func (s *TailerService) terminalError(errChan <-chan error) error {
	select {
	case err, ok := <-errChan:
		if ok && err != nil {
			return err
		}
	default:
	}
	return errors.NewRPCError(fmt.Errorf("log subscription closed"))
}
