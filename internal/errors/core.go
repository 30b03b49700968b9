package errors

import "fmt"

// Core module error codes
const (
	// Configuration errors
	ErrCodeInvalidConfig = "invalid_config"

	// Database errors
	ErrCodeDatabaseError    = "database_error"
	ErrCodeDatabaseNotFound = "database_not_found"

	// Blockchain errors
	ErrCodeRPCError          = "rpc_error"
	ErrCodeLogRangeTooLarge  = "log_range_too_large"
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeInvalidAddress    = "invalid_address"
	ErrCodeInvalidBlockRange = "invalid_block_range"

	// Streaming errors
	ErrCodeProtocolMismatch = "protocol_mismatch"

	// Decoder errors
	ErrCodeAnonymousEvent      = "anonymous_event"
	ErrCodeUnsupportedStandard = "unsupported_standard"
	ErrCodeInvalidEventData    = "invalid_event_data"
)

// NewInvalidConfigError creates an error for missing or invalid configuration
func NewInvalidConfigError(key string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: "Invalid configuration: missing " + key,
		Details: map[string]any{
			"key": key,
		},
	}
}

// NewDatabaseError creates an error for database failures
func NewDatabaseError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: "Database operation failed",
		Err:     err,
	}
}

// NewDatabaseNotFoundError creates an error for database record not found
func NewDatabaseNotFoundError(entity string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseNotFound,
		Message: entity + " not found",
	}
}

// NewRPCError creates a new error for RPC transport issues
func NewRPCError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeRPCError,
		Message: fmt.Sprintf("RPC error: %v", err),
		Err:     err,
	}
}

// NewLogRangeTooLargeError creates an error for a refused eth_getLogs range
func NewLogRangeTooLargeError(fromBlock, toBlock uint64, err error) *AppError {
	return &AppError{
		Code:    ErrCodeLogRangeTooLarge,
		Message: fmt.Sprintf("Log query range %d-%d refused by backend", fromBlock, toBlock),
		Details: map[string]any{
			"from_block": fromBlock,
			"to_block":   toBlock,
		},
		Err: err,
	}
}

// NewRateLimitExceededError creates a new error for rate limit issues
func NewRateLimitExceededError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimitExceeded,
		Message: "Rate limit exceeded",
		Err:     err,
	}
}

// NewInvalidAddressError creates a new error for invalid addresses
func NewInvalidAddressError(address string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidAddress,
		Message: fmt.Sprintf("Invalid address: %s", address),
		Details: map[string]any{
			"address": address,
		},
	}
}

// NewInvalidBlockRangeError creates an error for an inverted block range
func NewInvalidBlockRangeError(fromBlock, toBlock uint64) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidBlockRange,
		Message: fmt.Sprintf("Invalid block range: %d-%d", fromBlock, toBlock),
		Details: map[string]any{
			"from_block": fromBlock,
			"to_block":   toBlock,
		},
	}
}

// NewProtocolMismatchError creates an error for a malformed or missing
// subscription acknowledgment
func NewProtocolMismatchError(detail string) *AppError {
	return &AppError{
		Code:    ErrCodeProtocolMismatch,
		Message: "Unexpected subscription protocol frame: " + detail,
	}
}

// NewAnonymousEventError creates an error for a log without a signature topic
func NewAnonymousEventError(txHash string) *AppError {
	return &AppError{
		Code:    ErrCodeAnonymousEvent,
		Message: "Anonymous event: log carries no signature topic",
		Details: map[string]any{
			"tx_hash": txHash,
		},
	}
}

// NewUnsupportedStandardError creates an error for a log whose topic layout
// does not match the ERC20 Transfer event
func NewUnsupportedStandardError(topic string, topicCount int) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedStandard,
		Message: "Log topics do not match an ERC20 Transfer event",
		Details: map[string]any{
			"topic":       topic,
			"topic_count": topicCount,
		},
	}
}

// NewInvalidEventDataError creates an error for a Transfer log with a
// malformed data payload
func NewInvalidEventDataError(txHash string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidEventData,
		Message: "Transfer log data does not contain a value word",
		Details: map[string]any{
			"tx_hash": txHash,
		},
	}
}
