package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		base  string
		quote string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"btcusdt", "BTC", "USDT"},
		{" ETHUSDT ", "ETH", "USDT"},
		{"BTC/USDT", "BTC", "USDT"},
		{"btc-usdt", "BTC", "USDT"},
		{"SOL_USDC", "SOL", "USDC"},
		{"ETHBTC", "ETH", "BTC"},
		{"USDT", "", ""},
		{"", "", ""},
		{"NOTAPAIR", "", ""},
	}

	for _, tc := range cases {
		p := Parse(tc.in)
		assert.Equal(t, tc.base, p.Base, "base of %q", tc.in)
		assert.Equal(t, tc.quote, p.Quote, "quote of %q", tc.in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BTCUSDT", Normalize("btc/usdt"))
	assert.Equal(t, "BTCUSDT", Normalize("BTCUSDT"))
	assert.Equal(t, "", Normalize("garbage"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "BTC", Base("BTCUSDT"))
	assert.Equal(t, "DOGE", Base("doge/usdt"))
	// fall back to the cleaned input when the pair is unknown
	assert.Equal(t, "XYZ", Base(" xyz "))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("BTCUSDT"))
	assert.False(t, IsValid("USDT"))
	assert.False(t, IsValid(""))
}
