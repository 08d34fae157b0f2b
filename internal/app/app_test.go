package app

import (
	"testing"

	"arena/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{HTTPAddr: ":0"},
		Market: config.MarketConfig{
			Symbols:    []string{"BTCUSDT", "ETHUSDT"},
			QuoteAsset: "USDT",
		},
		Advisors: config.AdvisorsConfig{
			Models: []config.ModelConfig{{
				ID:      "primary",
				APIURL:  "https://api.example.com/v1",
				Model:   "gpt-test",
				Enabled: true,
			}},
			TimeoutSeconds: 30,
		},
		Decision: config.DecisionConfig{
			Source:        "primary",
			BuyThreshold:  0.65,
			SellThreshold: 0.65,
		},
		Trading: config.TradingConfig{
			Policy:           "monitor",
			Mode:             "test",
			MaxTradeQuote:    20,
			MaxPositionQuote: 50,
			MaxAttempts:      2,
		},
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewRejectsNoEnabledModels(t *testing.T) {
	cfg := testConfig()
	cfg.Advisors.Models[0].Enabled = false
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewWiresComponents(t *testing.T) {
	a, err := New(testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Server())

	status := a.Status()
	assert.Equal(t, "binance", status["exchange"])
	assert.Equal(t, "monitor", status["policy"])
	assert.Equal(t, "test", status["mode"])
	assert.Equal(t, "primary", status["source"])
	assert.Equal(t, "starting", status["state"])
}
