// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input provided")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientQuantity = errors.New("insufficient quantity to sell asset")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrUpstreamUnavailable  = errors.New("upstream service unavailable")
	ErrDuplicateEntry       = errors.New("duplicate entry")
	ErrPaymentPending       = errors.New("payment not settled yet")
)

// Invalid-input variants.
var (
	ErrSameWalletTransfer = fmt.Errorf("cannot transfer to the same wallet: %w", ErrInvalidInput)
	ErrAlreadyProcessed   = fmt.Errorf("already processed: %w", ErrInvalidInput)
)

// ErrIdempotencyKeyReused matches ErrDuplicateEntry.
var ErrIdempotencyKeyReused = fmt.Errorf("idempotency key reused with a different request: %w", ErrDuplicateEntry)

// Not-found variants. Each one matches ErrNotFound with errors.Is.
var (
	ErrWalletNotFound       = fmt.Errorf("wallet not found: %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrAssetNotFound        = fmt.Errorf("asset not found: %w", ErrNotFound)
	ErrOrderNotFound        = fmt.Errorf("order not found: %w", ErrNotFound)
	ErrWithdrawalNotFound   = fmt.Errorf("withdrawal not found: %w", ErrNotFound)
	ErrPaymentOrderNotFound = fmt.Errorf("payment order not found: %w", ErrNotFound)
	ErrCoinNotFound         = fmt.Errorf("coin not found: %w", ErrNotFound)
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
