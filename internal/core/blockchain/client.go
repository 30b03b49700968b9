package blockchain

import (
	"context"

	"holdex/internal/types"
)

// LogFilter describes an eth_getLogs query. Address and Topics are optional;
// an empty Address matches every contract and an empty Topics slice matches
// every event.
type LogFilter struct {
	// FromBlock is the first block of the range, inclusive
	FromBlock uint64
	// ToBlock is the last block of the range, inclusive
	ToBlock uint64
	// Address restricts the query to logs emitted by one contract
	Address string
	// Topics filters on the log's topic positions; only position 0 is used
	// by the indexer (the event signature hash)
	Topics []string
}

// Client defines the chain access interface the indexer is built against.
// It wraps the JSON-RPC endpoint for point queries and historical log
// filters, and the streaming endpoint for live log subscriptions.
type Client interface {
	// GetLatestBlock returns the current head block number.
	GetLatestBlock(ctx context.Context) (uint64, error)

	// GetLogs retrieves historical logs matching the filter. The backend may
	// refuse wide ranges; such failures surface as log_range_too_large or
	// rate_limit_exceeded errors, other transport failures as rpc_error.
	GetLogs(ctx context.Context, filter LogFilter) ([]types.Log, error)

	// SubscribeLogs opens a streaming subscription for logs matching
	// (address, topics) and delivers them on the returned channel. Transport
	// errors are reported on the error channel while the subscription
	// reconnects; a protocol_mismatch error is terminal and both channels
	// are closed. Cancelling ctx ends the subscription.
	SubscribeLogs(ctx context.Context, address string, topics []string) (<-chan types.Log, <-chan error, error)

	// ToChecksum normalizes a hex address to its EIP-55 mixed-case form.
	ToChecksum(address string) (string, error)

	// Chain returns the chain information.
	Chain() types.Chain

	// Close closes any open connections.
	Close()
}
