package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectorCfg = SelectorConfig{
	Source:        "deepseek",
	BuyThreshold:  0.65,
	SellThreshold: 0.70,
}

func TestSelectFinalObeysSingleSource(t *testing.T) {
	plans := map[string]TradePlan{
		"deepseek": {Buys: []BuyLeg{{Symbol: "BTCUSDT", QuoteAmount: 10}}, Confidence: 0.8},
		"qwen":     {Sells: []SellLeg{{Symbol: "BTCUSDT", Quantity: 1}}, Confidence: 0.99},
	}
	plan, ok := SelectFinal(plans, selectorCfg)
	require.True(t, ok)
	assert.Equal(t, []string{"BTCUSDT"}, plan.BuySymbols())
	assert.Empty(t, plan.Sells, "the other advisor's plan is never merged in")
}

func TestSelectFinalThresholdPerSide(t *testing.T) {
	buyOnly := TradePlan{Buys: []BuyLeg{{Symbol: "BTCUSDT", QuoteAmount: 10}}}
	sellOnly := TradePlan{Sells: []SellLeg{{Symbol: "BTCUSDT", Quantity: 1}}}
	both := TradePlan{
		Buys:  []BuyLeg{{Symbol: "BTCUSDT", QuoteAmount: 10}},
		Sells: []SellLeg{{Symbol: "SOLUSDT", Quantity: 1}},
	}

	cases := []struct {
		name string
		plan TradePlan
		conf float64
		ok   bool
	}{
		{"buy at threshold", buyOnly, 0.65, true},
		{"buy below threshold", buyOnly, 0.64, false},
		{"sell needs higher bar", sellOnly, 0.65, false},
		{"sell at threshold", sellOnly, 0.70, true},
		{"mixed needs the max", both, 0.69, false},
		{"mixed at max", both, 0.70, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := tc.plan
			plan.Confidence = tc.conf
			_, ok := SelectFinal(map[string]TradePlan{"deepseek": plan}, selectorCfg)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestSelectFinalMissingSourceHolds(t *testing.T) {
	plan, ok := SelectFinal(map[string]TradePlan{"qwen": {Confidence: 1}}, selectorCfg)
	assert.False(t, ok)
	assert.True(t, plan.IsNoop())
}

func TestSelectFinalNoopHoldsRegardlessOfConfidence(t *testing.T) {
	plans := map[string]TradePlan{"deepseek": {Confidence: 0.99}}
	_, ok := SelectFinal(plans, selectorCfg)
	assert.False(t, ok)
}

func TestCompareAgreement(t *testing.T) {
	a := TradePlan{
		Buys:  []BuyLeg{{Symbol: "BTCUSDT"}},
		Sells: []SellLeg{{Symbol: "SOLUSDT"}},
	}
	same := TradePlan{
		Buys:  []BuyLeg{{Symbol: "BTCUSDT"}},
		Sells: []SellLeg{{Symbol: "SOLUSDT"}},
	}
	partial := TradePlan{
		Buys: []BuyLeg{{Symbol: "BTCUSDT"}, {Symbol: "ETHUSDT"}},
	}
	other := TradePlan{
		Sells: []SellLeg{{Symbol: "DOGEUSDT"}},
	}

	assert.Equal(t, AgreementFull, Compare(a, same).Agreement)

	report := Compare(a, partial)
	assert.Equal(t, AgreementPartial, report.Agreement)
	assert.Equal(t, []string{"BTCUSDT"}, report.SharedBuys)

	assert.Equal(t, AgreementDivergent, Compare(a, other).Agreement)
}
