package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// NullAddress is the zero address; it shows up as the sender of mints
	// and the recipient of burns.
	NullAddress = "0x0000000000000000000000000000000000000000"
)

// IsHexAddress reports whether the string is a valid 20-byte hex address,
// with or without the 0x prefix.
func IsHexAddress(address string) bool {
	return common.IsHexAddress(address)
}

// NormalizeAddress lowercases an address for storage. Persisted rows always
// hold the lowercase form so lookups never depend on checksum casing.
func NormalizeAddress(address string) string {
	if !strings.HasPrefix(address, "0x") {
		address = "0x" + address
	}
	return strings.ToLower(address)
}

// ChecksumAddress returns the EIP-55 mixed-case form of the address.
func ChecksumAddress(address string) string {
	return common.HexToAddress(address).Hex()
}

// IsNullAddress checks if the address is the zero address
func IsNullAddress(address string) bool {
	return NormalizeAddress(address) == NullAddress
}
