package exchange

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"insufficient funds", fmt.Errorf("buy BTCUSDT: %w", ErrInsufficientFunds), false},
		{"auth", ErrAuthentication, false},
		{"invalid request", ErrInvalidRequest, false},
		{"order rejected", ErrOrderRejected, false},
		{"rate limited", ErrRateLimited, true},
		{"clock skew", ErrClockSkew, true},
		{"unavailable", fmt.Errorf("sell: %w", ErrUnavailable), true},
		{"unclassified", errors.New("connection reset"), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}

func TestNeedsTimeSync(t *testing.T) {
	assert.True(t, NeedsTimeSync(fmt.Errorf("buy: %w", ErrClockSkew)))
	assert.False(t, NeedsTimeSync(ErrRateLimited))
	assert.False(t, NeedsTimeSync(nil))
}
