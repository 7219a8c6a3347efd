// Package engineobs wraps the trading executor with tracing and timing.
package engineobs

import (
	"context"
	"time"

	"futures-ai-trader/internal/engine"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/trace"
	"futures-ai-trader/internal/types"
)

type observableTrader struct {
	inner engine.Trader
}

var _ engine.Trader = (*observableTrader)(nil)

func Wrap(t engine.Trader) engine.Trader {
	return &observableTrader{inner: t}
}

func (o *observableTrader) ExecuteSignal(ctx context.Context, signal types.TradeSignal, dryRun bool) types.TradeResult {
	ctx, span := trace.StartSpan(ctx, "engine.ExecuteSignal")
	defer span.End()

	start := time.Now()
	result := o.inner.ExecuteSignal(ctx, signal, dryRun)
	o.logResult(ctx, "Signal execution completed", result, start)
	return result
}

func (o *observableTrader) ExecuteAnalysis(ctx context.Context, decision types.Decision, dryRun bool) types.TradeResult {
	ctx, span := trace.StartSpan(ctx, "engine.ExecuteAnalysis")
	defer span.End()

	start := time.Now()
	result := o.inner.ExecuteAnalysis(ctx, decision, dryRun)
	o.logResult(ctx, "Analysis execution completed", result, start)
	return result
}

func (o *observableTrader) ClosePosition(ctx context.Context, symbol, filter string, volume int, dryRun bool) types.TradeResult {
	ctx, span := trace.StartSpan(ctx, "engine.ClosePosition")
	defer span.End()

	start := time.Now()
	result := o.inner.ClosePosition(ctx, symbol, filter, volume, dryRun)
	o.logResult(ctx, "Position close completed", result, start)
	return result
}

func (o *observableTrader) logResult(ctx context.Context, msg string, r types.TradeResult, start time.Time) {
	logger.Info(ctx, msg,
		"symbol", r.Symbol,
		"direction", string(r.Direction),
		"volume", r.Volume,
		"success", r.Success,
		"timed_out", r.TimedOut,
		"message", r.Message,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
