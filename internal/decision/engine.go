package decision

import (
	"context"
	"sync"
	"time"

	"arena/internal/gateway/provider"
	"arena/internal/logger"

	"golang.org/x/sync/errgroup"
)

// AdvisorOutput is one advisor's raw response with its decode result.
type AdvisorOutput struct {
	Source  string
	Advice  Advice
	Elapsed time.Duration
	Err     error
}

// Engine fans the prompt out to every enabled advisor and sanitizes
// whatever comes back. One advisor failing never blocks the others.
type Engine struct {
	Providers []provider.ModelProvider
	Timeout   time.Duration
}

func NewEngine(providers []provider.ModelProvider, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Engine{Providers: providers, Timeout: timeout}
}

// Collect queries all advisors in parallel and returns sanitized
// plans keyed by advisor ID. Failed advisors are logged and omitted.
func (e *Engine) Collect(ctx context.Context, system, user string, prices map[string]float64) map[string]TradePlan {
	outputs := e.dispatch(ctx, system, user)

	plans := make(map[string]TradePlan, len(outputs))
	for _, out := range outputs {
		if out.Err != nil {
			logger.Errorf("decision: advisor %s failed after %s: %v", out.Source, out.Elapsed.Round(time.Millisecond), out.Err)
			continue
		}
		plan := Sanitize(out.Advice, prices)
		logger.Infof("decision: advisor %s (%s shape, %s): buys=%v sells=%v conf=%.2f",
			out.Source, out.Advice.Kind, out.Elapsed.Round(time.Millisecond),
			plan.BuySymbols(), plan.SellSymbols(), plan.Confidence)
		plans[out.Source] = plan
	}
	return plans
}

func (e *Engine) dispatch(ctx context.Context, system, user string) []AdvisorOutput {
	enabled := make([]provider.ModelProvider, 0, len(e.Providers))
	for _, p := range e.Providers {
		if p != nil && p.Enabled() {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		outs = make([]AdvisorOutput, 0, len(enabled))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range enabled {
		p := p
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, e.Timeout)
			defer cancel()

			start := time.Now()
			raw, err := p.Call(callCtx, provider.ChatPayload{System: system, User: user, ExpectJSON: true})
			out := AdvisorOutput{Source: p.ID(), Elapsed: time.Since(start), Err: err}
			if err == nil {
				out.Advice = Parse(raw)
			}
			mu.Lock()
			outs = append(outs, out)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return outs
}
