package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrEmptyMessage        = errors.New("empty message")
	ErrInvalidCatalog      = errors.New("invalid catalog")
	ErrFallbackUnavailable = errors.New("fallback unavailable")
	ErrLedgerWrite         = errors.New("ledger write failed")
	ErrInvalidConfig       = errors.New("invalid configuration")
)
