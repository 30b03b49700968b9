package parser

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdex/internal/errors"
	"holdex/internal/types"
)

// Real mainnet Transfer logs: a USDT transfer and a DGD transfer.
var (
	erc20Log1 = types.Log{
		ChainID:     1,
		BlockNumber: 15941856,
		BlockHash:   "0x5ce752bc54c89c97098bb1222d6fe499f6819820d06fccec057008a975ad8614",
		Address:     "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		Topics: []string{
			"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
			"0x00000000000000000000000020dc3024213990d0cae48313da541459648a9483",
			"0x000000000000000000000000861ff4c1aa2591dac7b24a0e80631f77f59a06dc",
		},
		Data:            common.FromHex("0x0000000000000000000000000000000000000000000000000000000077359400"),
		TransactionHash: "0x3b2d2ed6638e0c0c9e53d84f463a4a3fc9de228d6e52356cf4e05537786313c0",
		LogIndex:        168,
	}

	erc20Log2 = types.Log{
		ChainID:     1,
		BlockNumber: 15941856,
		BlockHash:   "0x5ce752bc54c89c97098bb1222d6fe499f6819820d06fccec057008a975ad8614",
		Address:     "0xD46bA6D942050d489DBd938a2C909A5d5039A161",
		Topics: []string{
			"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
			"0x000000000000000000000000c5be99a02c6857f9eac67bbce58df5572498f40c",
			"0x000000000000000000000000e6c4293235d11c9d241d6d204eb366f0afdbe3fa",
		},
		Data:            common.FromHex("0x000000000000000000000000000000000000000000000000000000229d4309a6"),
		TransactionHash: "0xcf3ed8a344c06d1b2eefc5d26e3c59c4ca512d28bc84a07bf3eccde78e7bec7a",
		LogIndex:        165,
	}

	// ERC721 transfer: same signature topic, but the token id rides as a
	// fourth indexed topic.
	erc721Log = types.Log{
		ChainID:     1,
		BlockNumber: 15941856,
		BlockHash:   "0x5ce752bc54c89c97098bb1222d6fe499f6819820d06fccec057008a975ad8614",
		Address:     "0xB54420149dBE2D5B2186A3e6dc6fC9d1A58316d4",
		Topics: []string{
			"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
			"0x0000000000000000000000000000000000000000000000000000000000000000",
			"0x000000000000000000000000a1d02d5d5d76bb3b75cbcfe05187eccbaf292a75",
			"0x0000000000000000000000000000000000000000000000000000000000001c24",
		},
		Data:            nil,
		TransactionHash: "0x629934f933d27b8532d64ae5ede2057b7084b842aaddff5e4c8971d3a5adae65",
		LogIndex:        154,
	}

	anonymousLog = types.Log{
		ChainID:         1,
		BlockNumber:     15941856,
		BlockHash:       "0x5ce752bc54c89c97098bb1222d6fe499f6819820d06fccec057008a975ad8614",
		Address:         "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		Topics:          nil,
		Data:            common.FromHex("0x0000000000000000000000000000000000000000000000000000000077359400"),
		TransactionHash: "0x3b2d2ed6638e0c0c9e53d84f463a4a3fc9de228d6e52356cf4e05537786313c0",
		LogIndex:        168,
	}
)

func TestDecodeLog_ERC20Transfer(t *testing.T) {
	t.Parallel()

	p := NewTokenParser()

	transfer, err := p.DecodeLog(&erc20Log1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), transfer.ChainID)
	assert.Equal(t, uint64(15941856), transfer.BlockNumber)
	assert.Equal(t, erc20Log1.TransactionHash, transfer.TxHash)
	assert.Equal(t, "0x20dc3024213990d0cae48313da541459648a9483", transfer.From)
	assert.Equal(t, "0x861ff4c1aa2591dac7b24a0e80631f77f59a06dc", transfer.To)
	assert.Equal(t, "Transfer", transfer.Type)
	assert.Equal(t, "0xdac17f958d2ee523a2206206994597c13d831ec7", transfer.TokenAddress)

	// 2000000000 / 10^18
	expected := decimal.New(2000000000, -18)
	assert.True(t, transfer.Value.Decimal.Equal(expected),
		"value = %s, want %s", transfer.Value.String(), expected.String())
}

func TestDecodeLog_ERC20TransferLargeValue(t *testing.T) {
	t.Parallel()

	p := NewTokenParser()

	transfer, err := p.DecodeLog(&erc20Log2)
	require.NoError(t, err)

	assert.Equal(t, "0xc5be99a02c6857f9eac67bbce58df5572498f40c", transfer.From)
	assert.Equal(t, "0xe6c4293235d11c9d241d6d204eb366f0afdbe3fa", transfer.To)

	// 148667304358 / 10^18
	expected := decimal.New(148667304358, -18)
	assert.True(t, transfer.Value.Decimal.Equal(expected),
		"value = %s, want %s", transfer.Value.String(), expected.String())
}

func TestDecodeLog_ERC721Rejected(t *testing.T) {
	t.Parallel()

	p := NewTokenParser()

	transfer, err := p.DecodeLog(&erc721Log)
	assert.Nil(t, transfer)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedStandard))
}

func TestDecodeLog_AnonymousEventRejected(t *testing.T) {
	t.Parallel()

	p := NewTokenParser()

	transfer, err := p.DecodeLog(&anonymousLog)
	assert.Nil(t, transfer)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnonymousEvent))
}

func TestDecodeLog_UnknownTopicRejected(t *testing.T) {
	t.Parallel()

	p := NewTokenParser()

	log := erc20Log1
	log.Topics = []string{
		// Approval(address,address,uint256)
		"0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925",
		erc20Log1.Topics[1],
		erc20Log1.Topics[2],
	}

	_, err := p.DecodeLog(&log)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedStandard))
}

func TestDecodeLog_EmptyDataRejected(t *testing.T) {
	t.Parallel()

	p := NewTokenParser()

	log := erc20Log1
	log.Data = nil

	_, err := p.DecodeLog(&log)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidEventData))
}

func TestSplitToWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      []byte
		wantWords int
	}{
		{name: "empty", data: nil, wantWords: 0},
		{name: "single word", data: make([]byte, 32), wantWords: 1},
		{name: "two words", data: make([]byte, 64), wantWords: 2},
		{name: "partial trailing word", data: make([]byte, 40), wantWords: 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, splitToWords(tc.data), tc.wantWords)
		})
	}
}
