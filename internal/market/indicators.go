package market

import (
	"math"

	talib "github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

const (
	rsiPeriod = 14
	// volWindow is the number of returns the volatility estimate uses.
	volWindow = 24
)

// Indicators are advisory inputs. A nil field means the history was
// too short to compute it; consumers treat nil as "no signal".
type Indicators struct {
	RSI        *float64
	Volatility *float64
}

// ComputeIndicators derives RSI and return volatility from a close
// price series, oldest first.
func ComputeIndicators(closes []float64) Indicators {
	return Indicators{
		RSI:        rsi(closes, rsiPeriod),
		Volatility: volatility(closes, volWindow),
	}
}

func rsi(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}
	series := talib.Rsi(closes, period)
	if len(series) == 0 {
		return nil
	}
	val := series[len(series)-1]
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return nil
	}
	if val < 0 {
		val = 0
	}
	if val > 100 {
		val = 100
	}
	return &val
}

// volatility is the sample standard deviation of simple returns over
// the trailing window.
func volatility(closes []float64, window int) *float64 {
	if len(closes) < 3 {
		return nil
	}
	start := 0
	if len(closes) > window+1 {
		start = len(closes) - window - 1
	}
	recent := closes[start:]

	returns := make([]float64, 0, len(recent)-1)
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1]
		if prev == 0 {
			return nil
		}
		returns = append(returns, recent[i]/prev-1)
	}
	if len(returns) < 2 {
		return nil
	}
	val := stat.StdDev(returns, nil)
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return nil
	}
	return &val
}
