// Package binance adapts the Binance spot REST API to the exchange
// interface used by the execution pipeline.
package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"arena/internal/gateway/exchange"
	"arena/internal/logger"
	"arena/internal/pkg/convert"
	symbolpkg "arena/internal/pkg/symbol"

	gobinance "github.com/adshao/go-binance/v2"
)

const maxKlineLimit = 1000

type Client struct {
	cfg Config
	api *gobinance.Client
}

var _ exchange.Exchange = (*Client)(nil)

func New(cfg Config) *Client {
	final := cfg.withDefaults()
	api := gobinance.NewClient(final.APIKey, final.APISecret)
	api.BaseURL = final.RESTBaseURL
	api.HTTPClient = &http.Client{Timeout: final.HTTPTimeout}
	return &Client{cfg: final, api: api}
}

func (c *Client) Name() string { return "binance" }

func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	const op = "GetPrice"
	sym := symbolpkg.Normalize(symbol)
	if sym == "" {
		return 0, fmt.Errorf("%s: %w: bad symbol %q", op, exchange.ErrInvalidRequest, symbol)
	}

	prices, err := c.api.NewListPricesService().Symbol(sym).Do(ctx)
	if err == nil && len(prices) > 0 {
		return parsePrice(op, prices[0].Price)
	}
	if err != nil {
		logger.Warnf("binance: ticker price for %s failed, falling back to 24h stats: %v", sym, err)
	}

	// the stats endpoint carries a last trade price too
	stats, statsErr := c.api.NewListPriceChangeStatsService().Symbol(sym).Do(ctx)
	if statsErr != nil {
		if err != nil {
			return 0, wrapErr(op, err)
		}
		return 0, wrapErr(op, statsErr)
	}
	if len(stats) == 0 {
		return 0, fmt.Errorf("%s: %w: no price data for %s", op, exchange.ErrSymbolNotFound, sym)
	}
	return parsePrice(op, stats[0].LastPrice)
}

func (c *Client) GetPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	const op = "GetPrices"
	want := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		if norm := symbolpkg.Normalize(s); norm != "" {
			want[norm] = struct{}{}
		}
	}
	if len(want) == 0 {
		return map[string]float64{}, nil
	}

	prices, err := c.api.NewListPricesService().Do(ctx)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	out := make(map[string]float64, len(want))
	for _, p := range prices {
		if p == nil {
			continue
		}
		if _, ok := want[p.Symbol]; !ok {
			continue
		}
		val, perr := strconv.ParseFloat(p.Price, 64)
		if perr != nil {
			continue
		}
		out[p.Symbol] = val
	}
	return out, nil
}

func (c *Client) GetHistoricalCloses(ctx context.Context, symbol, interval string, limit int) ([]float64, error) {
	const op = "GetHistoricalCloses"
	sym := symbolpkg.Normalize(symbol)
	if sym == "" {
		return nil, fmt.Errorf("%s: %w: bad symbol %q", op, exchange.ErrInvalidRequest, symbol)
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		interval = "1h"
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > maxKlineLimit {
		limit = maxKlineLimit
	}

	kls, err := c.api.NewKlinesService().Symbol(sym).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	closes := make([]float64, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		val, perr := strconv.ParseFloat(kl.Close, 64)
		if perr != nil {
			return nil, fmt.Errorf("%s: parse close %q: %w", op, kl.Close, perr)
		}
		closes = append(closes, val)
	}
	return closes, nil
}

func (c *Client) GetBalances(ctx context.Context) (map[string]exchange.Balance, error) {
	const op = "GetBalances"
	account, err := c.api.NewGetAccountService().Do(ctx, gobinance.WithRecvWindow(c.cfg.RecvWindow))
	if err != nil {
		return nil, wrapErr(op, err)
	}

	out := make(map[string]exchange.Balance)
	for _, b := range account.Balances {
		free, _ := strconv.ParseFloat(b.Free, 64)
		locked, _ := strconv.ParseFloat(b.Locked, 64)
		if free <= 0 && locked <= 0 {
			continue
		}
		asset := strings.ToUpper(b.Asset)
		out[asset] = exchange.Balance{Asset: asset, Free: free, Locked: locked}
	}
	return out, nil
}

func (c *Client) GetAvailableBalance(ctx context.Context, asset string) (float64, error) {
	balances, err := c.GetBalances(ctx)
	if err != nil {
		return 0, err
	}
	return balances[strings.ToUpper(strings.TrimSpace(asset))].Free, nil
}

func (c *Client) GetSymbolFilters(ctx context.Context, symbol string) (exchange.SymbolFilters, error) {
	const op = "GetSymbolFilters"
	sym := symbolpkg.Normalize(symbol)
	if sym == "" {
		return exchange.SymbolFilters{}, fmt.Errorf("%s: %w: bad symbol %q", op, exchange.ErrInvalidRequest, symbol)
	}

	info, err := c.api.NewExchangeInfoService().Symbol(sym).Do(ctx)
	if err != nil {
		return exchange.SymbolFilters{}, wrapErr(op, err)
	}
	for _, s := range info.Symbols {
		if s.Symbol != sym {
			continue
		}
		filters := exchange.SymbolFilters{
			Symbol:         sym,
			QuotePrecision: s.QuotePrecision,
		}
		for _, f := range s.Filters {
			switch f["filterType"] {
			case "LOT_SIZE":
				filters.StepSize = filterFloat(f, "stepSize")
				filters.MinQty = filterFloat(f, "minQty")
			case "NOTIONAL", "MIN_NOTIONAL":
				if v := filterFloat(f, "minNotional"); v > 0 {
					filters.MinNotional = v
				}
			}
		}
		return filters, nil
	}
	return exchange.SymbolFilters{}, fmt.Errorf("%s: %w: %s", op, exchange.ErrSymbolNotFound, sym)
}

func (c *Client) PlaceMarketBuyByQuote(ctx context.Context, symbol string, quoteAmount float64) (*exchange.OrderResult, error) {
	const op = "PlaceMarketBuyByQuote"
	sym := symbolpkg.Normalize(symbol)
	if sym == "" || quoteAmount <= 0 {
		return nil, fmt.Errorf("%s: %w: symbol %q amount %v", op, exchange.ErrInvalidRequest, symbol, quoteAmount)
	}

	svc := c.api.NewCreateOrderService().
		Symbol(sym).
		Side(gobinance.SideTypeBuy).
		Type(gobinance.OrderTypeMarket).
		QuoteOrderQty(strconv.FormatFloat(quoteAmount, 'f', -1, 64))

	if c.cfg.DryRun {
		if err := svc.Test(ctx, gobinance.WithRecvWindow(c.cfg.RecvWindow)); err != nil {
			return nil, wrapErr(op, err)
		}
		return &exchange.OrderResult{Symbol: sym, Side: "BUY", QuoteSpent: quoteAmount}, nil
	}

	resp, err := svc.Do(ctx, gobinance.WithRecvWindow(c.cfg.RecvWindow))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return orderResult(resp), nil
}

func (c *Client) PlaceMarketSellByQuantity(ctx context.Context, symbol string, quantity float64) (*exchange.OrderResult, error) {
	const op = "PlaceMarketSellByQuantity"
	sym := symbolpkg.Normalize(symbol)
	if sym == "" || quantity <= 0 {
		return nil, fmt.Errorf("%s: %w: symbol %q quantity %v", op, exchange.ErrInvalidRequest, symbol, quantity)
	}

	svc := c.api.NewCreateOrderService().
		Symbol(sym).
		Side(gobinance.SideTypeSell).
		Type(gobinance.OrderTypeMarket).
		Quantity(strconv.FormatFloat(quantity, 'f', -1, 64))

	if c.cfg.DryRun {
		if err := svc.Test(ctx, gobinance.WithRecvWindow(c.cfg.RecvWindow)); err != nil {
			return nil, wrapErr(op, err)
		}
		return &exchange.OrderResult{Symbol: sym, Side: "SELL", ExecutedQty: quantity}, nil
	}

	resp, err := svc.Do(ctx, gobinance.WithRecvWindow(c.cfg.RecvWindow))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return orderResult(resp), nil
}

// SyncTime measures the local/venue clock offset and applies it to
// all subsequent signed requests.
func (c *Client) SyncTime(ctx context.Context) error {
	offset, err := c.api.NewSetServerTimeService().Do(ctx)
	if err != nil {
		return wrapErr("SyncTime", err)
	}
	logger.Debugf("binance: clock offset set to %dms", offset)
	return nil
}

func orderResult(resp *gobinance.CreateOrderResponse) *exchange.OrderResult {
	executed, _ := strconv.ParseFloat(resp.ExecutedQuantity, 64)
	quote, _ := strconv.ParseFloat(resp.CummulativeQuoteQuantity, 64)
	out := &exchange.OrderResult{
		OrderID:       resp.OrderID,
		Symbol:        resp.Symbol,
		Side:          string(resp.Side),
		ExecutedQty:   executed,
		QuoteSpent:    quote,
		TransactTime:  resp.TransactTime,
		ClientOrderID: resp.ClientOrderID,
	}
	if executed > 0 && quote > 0 {
		out.AvgPrice = quote / executed
	}
	return out
}

func parsePrice(op, raw string) (float64, error) {
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: parse price %q: %w", op, raw, err)
	}
	return val, nil
}

func filterFloat(filter map[string]interface{}, key string) float64 {
	// exchangeInfo serializes filter values as strings, but be
	// tolerant of numeric payloads too
	val, ok := convert.ToFloat64OK(filter[key])
	if !ok {
		return 0
	}
	return val
}
