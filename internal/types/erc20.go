package types

// ERC20 event signatures
const (
	// ERC20TransferEventSignature is the standard ERC20 Transfer event signature
	ERC20TransferEventSignature = "Transfer(address,address,uint256)"

	// ERC20TransferTopic is the keccak256 hash of the Transfer event signature,
	// the first topic of every ERC20 (and ERC721) Transfer log.
	ERC20TransferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
)

// Transfer classification constants
const (
	// TransferTypeERC20 marks a transfer decoded from a 3-topic Transfer log.
	TransferTypeERC20 = "ERC20"

	// TransferEventName is the type literal persisted with each transfer row.
	TransferEventName = "Transfer"
)

// DecimalsDefault is the decimal count assumed for every token. Tokens with
// a different decimals() value will produce scaled amounts.
const DecimalsDefault = 18
