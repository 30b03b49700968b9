package types

import "time"

// Transfer is a decoded ERC20 Transfer event. Addresses are normalized to
// lowercase and Value is token-denominated (raw amount divided by 10^18).
type Transfer struct {
	// ChainID is the network the transfer happened on
	ChainID int64
	// BlockNumber is the block containing the transfer
	BlockNumber uint64
	// TxHash is the hash of the transaction that emitted the event
	TxHash string
	// From is the sending wallet, lowercase hex
	From string
	// To is the receiving wallet, lowercase hex
	To string
	// Value is the transferred amount in token units
	Value Decimal
	// Type is the event name literal, always "Transfer"
	Type string
	// TokenAddress is the emitting token contract, lowercase hex
	TokenAddress string
	// BlockTime is the block timestamp when known
	BlockTime time.Time
}

// Balance is the current holding of one wallet in one token.
type Balance struct {
	// ChainID is the network the balance belongs to
	ChainID int64
	// WalletAddress is the holding wallet, lowercase hex
	WalletAddress string
	// TokenAddress is the token contract, lowercase hex
	TokenAddress string
	// Balance is the wallet's holding in token units
	Balance Decimal
}
