package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanShape(t *testing.T) {
	raw := `{
		"buys": [{"symbol": "btcusdt", "quote_usdt": 20}],
		"sells": [{"symbol": "ETHUSDT", "quantity": 0.5}],
		"rationale": "rotating into BTC",
		"confidence": 0.8
	}`
	advice := Parse(raw)
	require.Equal(t, AdvicePlan, advice.Kind)

	plan := advice.Plan
	require.Len(t, plan.Buys, 1)
	assert.Equal(t, "BTCUSDT", plan.Buys[0].Symbol)
	assert.Equal(t, 20.0, plan.Buys[0].QuoteAmount)
	require.Len(t, plan.Sells, 1)
	assert.Equal(t, 0.5, plan.Sells[0].Quantity)
	assert.Equal(t, 0.8, plan.Confidence)
}

func TestParsePlanShapeWithFencesAndStringNumbers(t *testing.T) {
	raw := "Here you go:\n```json\n" +
		`{"buys": [{"symbol": "BTCUSDT", "quote_usdt": "15.5"}], "sells": [], "confidence": "0.7"}` +
		"\n```"
	advice := Parse(raw)
	require.Equal(t, AdvicePlan, advice.Kind)
	require.Len(t, advice.Plan.Buys, 1)
	assert.Equal(t, 15.5, advice.Plan.Buys[0].QuoteAmount)
	assert.Equal(t, 0.7, advice.Plan.Confidence)
}

func TestParseLegacyShape(t *testing.T) {
	advice := Parse(`{"symbol": "ETHUSDT", "action": "buy", "confidence": 0.9, "rationale": "momentum"}`)
	require.Equal(t, AdviceLegacy, advice.Kind)
	assert.Equal(t, "ETHUSDT", advice.Legacy.Symbol)
	assert.Equal(t, "BUY", advice.Legacy.Action)
	assert.Equal(t, 0.9, advice.Legacy.Confidence)
}

func TestParseLegacyNullSymbolSpellings(t *testing.T) {
	for _, spelled := range []string{"null", "None", "NULL"} {
		advice := Parse(`{"symbol": "` + spelled + `", "action": "HOLD", "confidence": 0.3}`)
		require.Equal(t, AdviceLegacy, advice.Kind)
		assert.Empty(t, advice.Legacy.Symbol)
	}
}

func TestParseTextFallback(t *testing.T) {
	advice := Parse("I would BUY BTC here, the trend is strong.")
	require.Equal(t, AdviceLegacy, advice.Kind)
	assert.Equal(t, "BUY", advice.Legacy.Action)
	assert.Empty(t, advice.Legacy.Symbol)
	assert.Equal(t, textFallbackConfidence, advice.Legacy.Confidence)
}

func TestParseUnparseable(t *testing.T) {
	advice := Parse("the market is quiet today")
	assert.Equal(t, AdviceUnparseable, advice.Kind)

	advice = Parse("")
	assert.Equal(t, AdviceUnparseable, advice.Kind)

	// valid JSON but neither known shape
	advice = Parse(`{"foo": 1}`)
	assert.Equal(t, AdviceUnparseable, advice.Kind)
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	for _, raw := range []string{
		`{"buys": "not an array"}`,
		`{"buys": [{"quote_usdt": 5}]}`,
		`{"action": 42}`,
		"```json\n{broken\n```",
		`[1,2,3]`,
	} {
		assert.NotPanics(t, func() { Parse(raw) }, "input: %s", raw)
	}
}
