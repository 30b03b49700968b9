// Package parser decodes raw EVM event logs into typed transfer records.
package parser

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"holdex/internal/errors"
	"holdex/internal/types"
)

// wordSize is the width of one ABI-encoded value in the log data blob.
const wordSize = 32

// TokenParser classifies event logs by token standard and decodes ERC20
// Transfer events.
type TokenParser struct{}

// NewTokenParser creates a new TokenParser
func NewTokenParser() *TokenParser {
	return &TokenParser{}
}

// DecodeLog classifies the log and returns its decoded transfer record.
// Only ERC20 Transfer logs decode successfully: the signature topic must be
// the Transfer hash and the log must carry exactly three topics. A 4-topic
// Transfer log is an ERC721 transfer and is rejected as unsupported.
func (p *TokenParser) DecodeLog(log *types.Log) (*types.Transfer, error) {
	standard, err := p.decodeTokenStandard(log)
	if err != nil {
		return nil, err
	}

	// Only one standard decodes today; the switch keeps the rejection
	// explicit if ever a new standard classifies.
	switch standard {
	case types.TransferTypeERC20:
		return p.parseERC20TransferLog(log)
	default:
		return nil, errors.NewUnsupportedStandardError(log.Topic(), len(log.Topics))
	}
}

// decodeTokenStandard returns the token standard of the log's event.
func (p *TokenParser) decodeTokenStandard(log *types.Log) (string, error) {
	topic := log.Topic()
	if topic == "" {
		return "", errors.NewAnonymousEventError(log.TransactionHash)
	}
	if strings.EqualFold(topic, types.ERC20TransferTopic) && len(log.Topics) == 3 {
		return types.TransferTypeERC20, nil
	}
	return "", errors.NewUnsupportedStandardError(topic, len(log.Topics))
}

// parseERC20TransferLog decodes the two indexed addresses and the value word.
func (p *TokenParser) parseERC20TransferLog(log *types.Log) (*types.Transfer, error) {
	words := splitToWords(log.Data)
	if len(words) == 0 {
		return nil, errors.NewInvalidEventDataError(log.TransactionHash)
	}

	rawValue := new(big.Int).SetBytes(words[0])

	return &types.Transfer{
		ChainID:      log.ChainID,
		BlockNumber:  log.BlockNumber,
		TxHash:       log.TransactionHash,
		From:         wordToAddress(log.Topics[1]),
		To:           wordToAddress(log.Topics[2]),
		Value:        types.TokenAmount(rawValue),
		Type:         types.TransferEventName,
		TokenAddress: types.NormalizeAddress(log.Address),
		BlockTime:    log.BlockTime,
	}, nil
}

// splitToWords chunks the data blob into 32-byte ABI words. A trailing
// partial word is kept as-is.
func splitToWords(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}

	words := make([][]byte, 0, (len(data)+wordSize-1)/wordSize)
	for i := 0; i < len(data); i += wordSize {
		end := i + wordSize
		if end > len(data) {
			end = len(data)
		}
		words = append(words, data[i:end])
	}
	return words
}

// wordToAddress extracts the lower 20 bytes of a 32-byte topic as a
// lowercase hex address.
func wordToAddress(topic string) string {
	return strings.ToLower(common.HexToAddress(topic).Hex())
}
