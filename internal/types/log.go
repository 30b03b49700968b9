package types

import "time"

// Log represents an event log emitted by a contract, as returned by
// eth_getLogs or delivered over a log subscription. Integer fields are
// already decoded from their hex wire encoding.
type Log struct {
	// ChainID is the network the log was observed on
	ChainID int64
	// BlockNumber is the block that contains the emitting transaction
	BlockNumber uint64
	// BlockHash is the hash of that block
	BlockHash string
	// Address is the contract that emitted the log
	Address string
	// Topics are the indexed event arguments; Topics[0] is the event
	// signature hash, absent only for anonymous events
	Topics []string
	// Data is the ABI-encoded non-indexed arguments
	Data []byte
	// TransactionHash is the hash of the emitting transaction
	TransactionHash string
	// LogIndex is the position of the log within the block
	LogIndex uint
	// Deleted is true when a chain reorganization retracted the log
	Deleted bool
	// BlockTime is the block timestamp when known, zero otherwise
	BlockTime time.Time
}

// Topic returns the event signature topic, or "" for anonymous events.
func (l *Log) Topic() string {
	if len(l.Topics) == 0 {
		return ""
	}
	return l.Topics[0]
}
