// Package trading provides order sizing and rounding utilities.
package trading

import (
	"math"

	"github.com/shopspring/decimal"
)

func decFromFloat(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val)
}

// RoundToStep floors a base asset quantity to the exchange lot step.
// A non-positive step returns the quantity unchanged. Rounding an
// already aligned quantity is a no-op.
func RoundToStep(qty, step float64) float64 {
	if qty <= 0 {
		return 0
	}
	if step <= 0 {
		return qty
	}
	q := decFromFloat(qty)
	s := decFromFloat(step)
	steps := q.Div(s).Floor()
	out, _ := steps.Mul(s).Float64()
	return out
}

// RoundQuote floors a quote currency amount to the given number of
// decimal places.
func RoundQuote(amount float64, precision int) float64 {
	if amount <= 0 {
		return 0
	}
	if precision < 0 {
		return amount
	}
	out, _ := decFromFloat(amount).RoundFloor(int32(precision)).Float64()
	return out
}

// CapAt limits value to the available balance, returning 0 for
// non-positive inputs.
func CapAt(value, available float64) float64 {
	if value <= 0 || available <= 0 {
		return 0
	}
	if value > available {
		return available
	}
	return value
}
