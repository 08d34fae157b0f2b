// Package exchange defines the spot venue abstraction used by the
// execution pipeline. Adapters wrap venue SDK errors with the
// sentinel errors declared here so callers can branch with errors.Is.
package exchange

import "context"

type Exchange interface {
	Name() string

	// GetPrice returns the latest trade price for one pair.
	GetPrice(ctx context.Context, symbol string) (float64, error)

	// GetPrices returns latest prices for the given pairs in one pass.
	GetPrices(ctx context.Context, symbols []string) (map[string]float64, error)

	// GetHistoricalCloses returns up to limit close prices for the
	// given candle interval, oldest first.
	GetHistoricalCloses(ctx context.Context, symbol, interval string, limit int) ([]float64, error)

	// GetBalances returns all non-zero asset balances.
	GetBalances(ctx context.Context) (map[string]Balance, error)

	// GetAvailableBalance returns the free (unlocked) amount of one asset.
	GetAvailableBalance(ctx context.Context, asset string) (float64, error)

	// GetSymbolFilters returns the venue trading rules for a pair.
	GetSymbolFilters(ctx context.Context, symbol string) (SymbolFilters, error)

	// PlaceMarketBuyByQuote submits a market buy sized in quote
	// currency (e.g. spend 50 USDT of BTCUSDT).
	PlaceMarketBuyByQuote(ctx context.Context, symbol string, quoteAmount float64) (*OrderResult, error)

	// PlaceMarketSellByQuantity submits a market sell sized in base
	// asset quantity.
	PlaceMarketSellByQuantity(ctx context.Context, symbol string, quantity float64) (*OrderResult, error)

	// SyncTime refreshes the local clock offset against the venue.
	SyncTime(ctx context.Context) error
}

// Balance is one asset's holdings.
type Balance struct {
	Asset  string
	Free   float64
	Locked float64
}

func (b Balance) Total() float64 { return b.Free + b.Locked }

// SymbolFilters captures the venue trading rules the executor needs
// to size orders.
type SymbolFilters struct {
	Symbol         string
	StepSize       float64
	MinQty         float64
	MinNotional    float64
	QuotePrecision int
}

// OrderResult is the venue acknowledgement of a filled market order.
type OrderResult struct {
	OrderID       int64
	Symbol        string
	Side          string
	ExecutedQty   float64
	QuoteSpent    float64
	AvgPrice      float64
	TransactTime  int64
	ClientOrderID string
}
