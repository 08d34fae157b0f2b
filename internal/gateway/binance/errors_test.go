package binance

import (
	"errors"
	"testing"

	"arena/internal/gateway/exchange"

	"github.com/adshao/go-binance/v2/common"
	"github.com/stretchr/testify/assert"
)

func TestWrapErrAPICodes(t *testing.T) {
	cases := []struct {
		name string
		code int64
		want error
	}{
		{"rate limit", -1003, exchange.ErrRateLimited},
		{"clock skew", -1021, exchange.ErrClockSkew},
		{"bad signature", -1022, exchange.ErrAuthentication},
		{"bad api key", -2015, exchange.ErrAuthentication},
		{"bad param", -1102, exchange.ErrInvalidRequest},
		{"order rejected", -2010, exchange.ErrOrderRejected},
		{"insufficient", -2018, exchange.ErrInsufficientFunds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := wrapErr("PlaceMarketBuyByQuote", &common.APIError{Code: tc.code, Message: "x"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWrapErrUnmappedCodeKeptVerbatim(t *testing.T) {
	err := wrapErr("GetPrice", &common.APIError{Code: -9999, Message: "strange"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, exchange.ErrRateLimited)
	assert.Contains(t, err.Error(), "-9999")
}

func TestWrapErrNetwork(t *testing.T) {
	err := wrapErr("GetBalances", errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, exchange.ErrUnavailable)
	assert.Nil(t, wrapErr("GetBalances", nil))
}
