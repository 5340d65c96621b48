package marketplace

import (
	"errors"
	"fmt"

	"github.com/AnushkaKohli/nftmarketplace/account"
	"github.com/AnushkaKohli/nftmarketplace/fee"
	"github.com/AnushkaKohli/nftmarketplace/item"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound       = errors.New("marketplace: not found")
	ErrAlreadyExists  = errors.New("marketplace: already exists")
	ErrInvalidInput   = errors.New("marketplace: invalid input")
	ErrInvalidAccount = account.ErrInvalid
	ErrUnauthorized   = fee.ErrUnauthorized

	// Listing errors
	ErrPriceInvalid = errors.New("marketplace: price must be positive")
	ErrFeeMismatch  = fee.ErrFeeMismatch
	ErrInvalidFee   = fee.ErrInvalidFee

	// Item errors
	ErrItemNotFound  = item.ErrNotFound
	ErrInvalidItemID = item.ErrInvalidID
	ErrAlreadySold   = errors.New("marketplace: item already sold")
	ErrPriceMismatch = errors.New("marketplace: payment does not match asking price")
	ErrNotHolder     = errors.New("marketplace: caller does not hold the item")
	ErrNotSeller     = errors.New("marketplace: caller is not the seller")
	ErrNotListed     = errors.New("marketplace: item is not listed")

	// Lifecycle errors
	ErrNotStarted = errors.New("marketplace: not started")
	ErrStopped    = errors.New("marketplace: stopped and cannot be restarted")

	// Store errors
	ErrStoreNotReady = errors.New("marketplace: store not ready")
	ErrStoreClosed   = errors.New("marketplace: store is closed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("marketplace: validation failed for %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error { return e.Err }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsRejection returns true if the call was refused because of the caller's
// input or the item's state. The ledger is unchanged after a rejection.
func IsRejection(err error) bool {
	return errors.Is(err, ErrPriceInvalid) ||
		errors.Is(err, ErrFeeMismatch) ||
		errors.Is(err, ErrInvalidFee) ||
		errors.Is(err, ErrPriceMismatch) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrInvalidItemID) ||
		errors.Is(err, ErrAlreadySold) ||
		errors.Is(err, ErrNotHolder) ||
		errors.Is(err, ErrNotSeller) ||
		errors.Is(err, ErrNotListed) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidAccount) ||
		errors.Is(err, ErrInvalidInput)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady)
}
