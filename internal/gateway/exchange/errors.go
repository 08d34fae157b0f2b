package exchange

import "errors"

// Sentinel errors adapters wrap venue failures with. The executor
// decides retry behaviour from these, never from raw SDK errors.
var (
	ErrUnavailable       = errors.New("exchange api unavailable")
	ErrRateLimited       = errors.New("api rate limit exceeded")
	ErrClockSkew         = errors.New("request timestamp outside recv window")
	ErrAuthentication    = errors.New("exchange authentication failed")
	ErrInvalidRequest    = errors.New("invalid request parameters")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOrderRejected     = errors.New("order rejected")
	ErrSymbolNotFound    = errors.New("symbol not found")
)

// IsRetryable reports whether an order attempt is worth repeating.
// Fund, auth and parameter failures are deterministic and are not.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrAuthentication),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrOrderRejected),
		errors.Is(err, ErrSymbolNotFound):
		return false
	}
	return true
}

// NeedsTimeSync reports whether the failure indicates local clock
// drift, in which case the caller should resync before retrying.
func NeedsTimeSync(err error) bool {
	return errors.Is(err, ErrClockSkew)
}
