// Package app wires the configuration into a running decision loop:
// market snapshot, advisor fan-out, selection, risk-gated execution
// and the audit trail.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"arena/internal/config"
	"arena/internal/decision"
	"arena/internal/executor"
	"arena/internal/gateway/binance"
	"arena/internal/gateway/exchange"
	"arena/internal/gateway/provider"
	"arena/internal/logger"
	"arena/internal/market"
	"arena/internal/memory"
	"arena/internal/risk"
	"arena/internal/store/cyclelog"
	apihttp "arena/internal/transport/http"

	"github.com/google/uuid"
)

type App struct {
	cfg      *config.Config
	ex       exchange.Exchange
	market   *market.Service
	engine   *decision.Engine
	selector decision.SelectorConfig
	gate     *risk.Gate
	exec     *executor.Engine
	memory   *memory.Log
	cycles   *cyclelog.Store
	server   *apihttp.Server

	mu            sync.Mutex
	lastCycle     time.Time
	lastState     string
	lastConsensus string
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	ex := binance.New(binance.Config{
		APIKey:      cfg.Exchange.APIKey,
		APISecret:   cfg.Exchange.APISecret,
		RESTBaseURL: cfg.Exchange.RESTBaseURL,
		HTTPTimeout: time.Duration(cfg.Exchange.TimeoutSeconds) * time.Second,
		RecvWindow:  cfg.Exchange.RecvWindowMS,
		Testnet:     cfg.Exchange.Testnet,
		DryRun:      cfg.Trading.TestOrders(),
	})

	mkt := market.NewService(market.Config{
		CandleInterval: cfg.Market.CandleInterval,
		HistoryLimit:   cfg.Market.HistoryLimit,
		QuoteAsset:     cfg.Market.QuoteAsset,
	}, ex)

	models := make([]provider.ModelCfg, 0, len(cfg.Advisors.Models))
	for _, m := range cfg.Advisors.Models {
		models = append(models, provider.ModelCfg{
			ID:         m.ID,
			Provider:   m.Provider,
			APIURL:     m.APIURL,
			APIKey:     m.APIKey,
			Model:      m.Model,
			Enabled:    m.Enabled,
			ExpectJSON: m.ExpectJSON,
			Headers:    m.Headers,
		})
	}
	advisorTimeout := time.Duration(cfg.Advisors.TimeoutSeconds) * time.Second
	providers := provider.BuildProviders(models, advisorTimeout, cfg.Advisors.MaxRetries)
	if len(providers) == 0 {
		return nil, fmt.Errorf("no enabled advisor models")
	}
	engine := decision.NewEngine(providers, advisorTimeout)

	memLog := memory.NewLog(memory.Config{
		Enabled:  cfg.Memory.Enabled,
		Path:     cfg.Memory.Path,
		MaxItems: cfg.Memory.MaxItems,
	})

	gate := risk.NewGate(risk.Config{
		RSIBuyMax:     cfg.Risk.RSIBuyMax,
		RSISellMin:    cfg.Risk.RSISellMin,
		MaxVolatility: cfg.Risk.MaxVolatility,
		Cooldown:      time.Duration(cfg.Risk.CooldownSeconds) * time.Second,
	}, memLog)

	exec := executor.New(executor.Config{
		MaxTradeQuote:    cfg.Trading.MaxTradeQuote,
		MaxPositionQuote: cfg.Trading.MaxPositionQuote,
		MaxAttempts:      cfg.Trading.MaxAttempts,
		MonitorOnly:      cfg.Trading.MonitorOnly(),
		QuoteAsset:       cfg.Market.QuoteAsset,
	}, ex, gate)

	a := &App{
		cfg:    cfg,
		ex:     ex,
		market: mkt,
		engine: engine,
		selector: decision.SelectorConfig{
			Source:        cfg.Decision.Source,
			BuyThreshold:  cfg.Decision.BuyThreshold,
			SellThreshold: cfg.Decision.SellThreshold,
		},
		gate:      gate,
		exec:      exec,
		memory:    memLog,
		lastState: "starting",
	}

	if cfg.Store.Enabled {
		store, err := cyclelog.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open cycle store: %w", err)
		}
		a.cycles = store
	}

	a.server = apihttp.NewServer(apihttp.ServerConfig{
		Addr:   cfg.App.HTTPAddr,
		Memory: memLog,
		Cycles: a.cycles,
		Status: a.Status,
	})
	return a, nil
}

// Server returns the HTTP surface; callers own starting it.
func (a *App) Server() *apihttp.Server { return a.server }

// SyncTime aligns the signed-request clock with the venue. Called at
// startup and again when order submission hits a timestamp rejection.
func (a *App) SyncTime(ctx context.Context) error {
	return a.ex.SyncTime(ctx)
}

func (a *App) Close() error {
	if a.cycles != nil {
		return a.cycles.Close()
	}
	return nil
}

// Status is the /api/status payload.
func (a *App) Status() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return map[string]any{
		"exchange":   a.ex.Name(),
		"symbols":    a.cfg.Market.Symbols,
		"policy":     strings.ToLower(a.cfg.Trading.Policy),
		"mode":       strings.ToLower(a.cfg.Trading.Mode),
		"source":     a.cfg.Decision.Source,
		"last_cycle": a.lastCycle,
		"state":      a.lastState,
		"consensus":  a.lastConsensus,
	}
}

func (a *App) setState(state string) {
	a.mu.Lock()
	a.lastCycle = time.Now().UTC()
	a.lastState = state
	a.mu.Unlock()
}

// RunCycle performs one full pass: snapshot, advise, select, execute,
// remember. A snapshot without a single priced symbol is fatal for
// the cycle; everything downstream degrades per intent.
func (a *App) RunCycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	started := time.Now()
	logger.Infof("cycle %s: starting", cycleID)

	snap, err := a.market.Snapshot(ctx, a.cfg.Market.Symbols)
	if err != nil {
		a.setState("snapshot failed")
		a.persistCycle(ctx, cycleID, started, cyclelog.CycleStatusFailed, decision.TradePlan{}, nil, err)
		return fmt.Errorf("market snapshot: %w", err)
	}
	if len(snap.Symbols) == 0 {
		a.setState("no priced symbols")
		err := fmt.Errorf("no valid prices for configured symbols")
		a.persistCycle(ctx, cycleID, started, cyclelog.CycleStatusFailed, decision.TradePlan{}, nil, err)
		return err
	}

	prices := make(map[string]float64, len(snap.Symbols))
	history := make(map[string][]float64, len(snap.Symbols))
	balances := make(map[string]float64, len(snap.Balances))
	for sym, st := range snap.Symbols {
		prices[sym] = st.Price
		if len(st.Closes) > 0 {
			history[sym] = st.Closes
		}
	}
	for asset, bal := range snap.Balances {
		balances[asset] = bal.Total()
	}

	system, user := decision.BuildPrompt(decision.PromptInput{
		Prices:           prices,
		History:          history,
		Balances:         balances,
		QuoteFree:        snap.QuoteFree,
		MaxTradeQuote:    a.cfg.Trading.MaxTradeQuote,
		MaxPositionQuote: a.cfg.Trading.MaxPositionQuote,
		MinConfidence:    minThreshold(a.selector),
		RecentActivity:   a.memory.RecentLines(a.cfg.Decision.MemoryLines),
	})

	plans := a.engine.Collect(ctx, system, user, prices)
	if len(plans) == 0 {
		a.setState("no advisor responses")
		err := fmt.Errorf("all advisors failed")
		a.persistCycle(ctx, cycleID, started, cyclelog.CycleStatusFailed, decision.TradePlan{}, nil, err)
		return err
	}
	a.logConsensus(plans)

	plan, ok := decision.SelectFinal(plans, a.selector)
	if !ok {
		a.setState("holding")
		a.persistCycle(ctx, cycleID, started, cyclelog.CycleStatusNoop, plan, nil, nil)
		logger.Infof("cycle %s: holding, nothing to execute", cycleID)
		return nil
	}

	results := a.exec.ExecutePlan(ctx, plan, snap)
	a.setState("executed")

	rec := memory.Record{
		Timestamp:     time.Now().UTC(),
		TradeMode:     strings.ToLower(a.cfg.Trading.Mode),
		DecisionModel: a.selector.Source,
		FinalDecision: plan,
		Results:       results,
	}
	if err := a.memory.Append(rec); err != nil {
		logger.Errorf("cycle %s: trade memory append failed: %v", cycleID, err)
	}
	a.persistCycle(ctx, cycleID, started, cyclelog.CycleStatusExecuted, plan, results, nil)

	logger.Infof("cycle %s: done, %d operation(s) in %s",
		cycleID, len(results), time.Since(started).Round(time.Millisecond))
	return nil
}

// logConsensus compares the two advisor plans when exactly two
// responded. The report only feeds logs; selection never depends on
// agreement.
func (a *App) logConsensus(plans map[string]decision.TradePlan) {
	if len(plans) != 2 {
		return
	}
	ids := make([]string, 0, 2)
	for id := range plans {
		ids = append(ids, id)
	}
	if ids[0] > ids[1] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	report := decision.Compare(plans[ids[0]], plans[ids[1]])
	logger.Infof("consensus %s vs %s: %s", ids[0], ids[1], report.String())
	a.mu.Lock()
	a.lastConsensus = report.String()
	a.mu.Unlock()
}

func (a *App) persistCycle(ctx context.Context, cycleID string, started time.Time,
	status cyclelog.CycleStatus, plan decision.TradePlan, results []memory.OperationResult, cycleErr error) {
	if a.cycles == nil {
		return
	}
	row := &cyclelog.CycleModel{
		CycleID:       cycleID,
		DecisionModel: a.selector.Source,
		TradeMode:     strings.ToLower(a.cfg.Trading.Mode),
		Status:        status,
		Rationale:     plan.Rationale,
		Confidence:    plan.Confidence,
		StartedAtUnix: started.Unix(),
		ElapsedMS:     time.Since(started).Milliseconds(),
	}
	if cycleErr != nil {
		row.Error = cycleErr.Error()
	}
	if raw, err := json.Marshal(plan); err == nil {
		row.PlanJSON = raw
	}
	if len(results) > 0 {
		if raw, err := json.Marshal(results); err == nil {
			row.ResultsJSON = raw
		}
	}
	if err := a.cycles.Append(ctx, row); err != nil {
		logger.Errorf("cycle %s: audit row not persisted: %v", cycleID, err)
	}
}

func minThreshold(cfg decision.SelectorConfig) float64 {
	if cfg.BuyThreshold < cfg.SellThreshold {
		return cfg.BuyThreshold
	}
	return cfg.SellThreshold
}
