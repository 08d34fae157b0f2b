// Package market gathers the venue state a decision cycle needs:
// prices, balances and per-symbol indicators.
package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"arena/internal/gateway/exchange"
	"arena/internal/logger"
	symbolpkg "arena/internal/pkg/symbol"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	// CandleInterval is the kline interval fed into indicators.
	CandleInterval string
	// HistoryLimit is how many closes to fetch per symbol.
	HistoryLimit int
	// QuoteAsset is the settlement currency, usually USDT.
	QuoteAsset string
}

func (c *Config) withDefaults() Config {
	out := *c
	out.CandleInterval = strings.ToLower(strings.TrimSpace(out.CandleInterval))
	if out.CandleInterval == "" {
		out.CandleInterval = "1h"
	}
	if out.HistoryLimit <= 0 {
		out.HistoryLimit = 100
	}
	out.QuoteAsset = strings.ToUpper(strings.TrimSpace(out.QuoteAsset))
	if out.QuoteAsset == "" {
		out.QuoteAsset = "USDT"
	}
	return out
}

// SymbolState is one pair's view at snapshot time.
type SymbolState struct {
	Symbol     string
	Price      float64
	Closes     []float64
	Indicators Indicators
}

// Snapshot is the market state for one decision cycle.
type Snapshot struct {
	Time      time.Time
	Symbols   map[string]SymbolState
	Balances  map[string]exchange.Balance
	QuoteFree float64
}

type Service struct {
	cfg Config
	ex  exchange.Exchange
}

func NewService(cfg Config, ex exchange.Exchange) *Service {
	return &Service{cfg: cfg.withDefaults(), ex: ex}
}

// Snapshot fetches prices, balances and indicator history in
// parallel. Missing indicator history degrades to nil indicators;
// price or balance failures abort the snapshot.
func (s *Service) Snapshot(ctx context.Context, symbols []string) (*Snapshot, error) {
	normed := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, raw := range symbols {
		sym := symbolpkg.Normalize(raw)
		if sym == "" {
			logger.Warnf("market: skipping unrecognized symbol %q", raw)
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		normed = append(normed, sym)
	}

	snap := &Snapshot{
		Time:    time.Now().UTC(),
		Symbols: make(map[string]SymbolState, len(normed)),
	}

	var (
		mu     sync.Mutex
		prices map[string]float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.ex.GetPrices(gctx, normed)
		if err != nil {
			return fmt.Errorf("fetch prices: %w", err)
		}
		prices = p
		return nil
	})

	g.Go(func() error {
		balances, err := s.ex.GetBalances(gctx)
		if err != nil {
			return fmt.Errorf("fetch balances: %w", err)
		}
		mu.Lock()
		snap.Balances = balances
		snap.QuoteFree = balances[s.cfg.QuoteAsset].Free
		mu.Unlock()
		return nil
	})

	indicators := make(map[string]Indicators, len(normed))
	history := make(map[string][]float64, len(normed))
	for _, sym := range normed {
		sym := sym
		g.Go(func() error {
			closes, err := s.ex.GetHistoricalCloses(gctx, sym, s.cfg.CandleInterval, s.cfg.HistoryLimit)
			if err != nil {
				logger.Warnf("market: history for %s unavailable: %v", sym, err)
				return nil
			}
			ind := ComputeIndicators(closes)
			mu.Lock()
			indicators[sym] = ind
			history[sym] = closes
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, sym := range normed {
		price, ok := prices[sym]
		if !ok {
			logger.Warnf("market: no price for %s, dropping from snapshot", sym)
			continue
		}
		snap.Symbols[sym] = SymbolState{
			Symbol:     sym,
			Price:      price,
			Closes:     history[sym],
			Indicators: indicators[sym],
		}
	}
	return snap, nil
}

// Price returns the snapshot price for a pair, ok=false when the
// pair was dropped.
func (s *Snapshot) Price(symbol string) (float64, bool) {
	st, ok := s.Symbols[symbolpkg.Normalize(symbol)]
	return st.Price, ok
}
