package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestComputeIndicatorsUptrend(t *testing.T) {
	closes := linearCloses(60, 100, 1)
	ind := ComputeIndicators(closes)

	require.NotNil(t, ind.RSI)
	// monotonically rising closes pin RSI at the top of the range
	assert.Greater(t, *ind.RSI, 95.0)
	assert.LessOrEqual(t, *ind.RSI, 100.0)

	require.NotNil(t, ind.Volatility)
	assert.Greater(t, *ind.Volatility, 0.0)
}

func TestComputeIndicatorsFlatSeries(t *testing.T) {
	closes := linearCloses(60, 100, 0)
	ind := ComputeIndicators(closes)

	require.NotNil(t, ind.Volatility)
	assert.InDelta(t, 0.0, *ind.Volatility, 1e-12)
}

func TestComputeIndicatorsShortHistory(t *testing.T) {
	ind := ComputeIndicators([]float64{100, 101, 102})
	assert.Nil(t, ind.RSI, "rsi needs period+1 closes")
	require.NotNil(t, ind.Volatility)

	ind = ComputeIndicators([]float64{100, 101})
	assert.Nil(t, ind.RSI)
	assert.Nil(t, ind.Volatility)

	ind = ComputeIndicators(nil)
	assert.Nil(t, ind.RSI)
	assert.Nil(t, ind.Volatility)
}

func TestComputeIndicatorsZeroPrice(t *testing.T) {
	ind := ComputeIndicators([]float64{100, 0, 100, 100})
	assert.Nil(t, ind.Volatility, "zero close makes returns undefined")
}

func TestVolatilityMatchesSampleStdDev(t *testing.T) {
	closes := []float64{100, 110, 99, 104.5}
	ind := ComputeIndicators(closes)
	require.NotNil(t, ind.Volatility)

	returns := []float64{0.10, 99.0/110.0 - 1, 104.5/99.0 - 1}
	mean := (returns[0] + returns[1] + returns[2]) / 3
	var ss float64
	for _, r := range returns {
		ss += (r - mean) * (r - mean)
	}
	want := math.Sqrt(ss / 2)
	assert.InDelta(t, want, *ind.Volatility, 1e-12)
}
