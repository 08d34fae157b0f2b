package binance

import (
	"errors"
	"fmt"
	"strings"

	"arena/internal/gateway/exchange"

	"github.com/adshao/go-binance/v2/common"
)

// wrapErr maps venue API codes onto the exchange sentinel errors so
// callers never have to inspect SDK types.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		var mapped error
		switch apiErr.Code {
		case -1003, -1015:
			mapped = exchange.ErrRateLimited
		case -1021:
			mapped = exchange.ErrClockSkew
		case -1022, -2014, -2015:
			mapped = exchange.ErrAuthentication
		case -1100, -1101, -1102, -1103, -1104, -1106, -1111, -1112, -1121, -1130:
			mapped = exchange.ErrInvalidRequest
		case -1013, -2010:
			mapped = exchange.ErrOrderRejected
		case -2018, -2019, -3005:
			mapped = exchange.ErrInsufficientFunds
		default:
			if apiErr.Code <= -500 && apiErr.Code > -600 {
				mapped = exchange.ErrUnavailable
			}
		}
		if mapped != nil {
			return fmt.Errorf("%s: %w: %s (code %d)", op, mapped, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("%s: binance api error %d: %s", op, apiErr.Code, apiErr.Message)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "insufficient balance"):
		return fmt.Errorf("%s: %w: %v", op, exchange.ErrInsufficientFunds, err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"):
		return fmt.Errorf("%s: %w: %v", op, exchange.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
