// Package market assembles the analysis context for one symbol: a quote
// snapshot, a trimmed kline window and the derived indicator set.
package market

import (
	"context"
	"fmt"

	"futures-ai-trader/internal/gateway"
	"futures-ai-trader/internal/indicator"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/types"
)

// Builder fetches market data through the gateway and produces an
// AnalysisContext. It performs no retries; retry policy belongs to the
// gateway collaborator.
type Builder struct {
	gw gateway.Gateway

	klineSeconds int
	klineCount   int
	window       int
}

func NewBuilder(gw gateway.Gateway, klineSeconds, klineCount, window int) *Builder {
	if klineSeconds <= 0 {
		klineSeconds = 86400
	}
	if klineCount <= 0 {
		klineCount = 100
	}
	if window <= 0 || window > klineCount {
		window = 30
	}
	return &Builder{gw: gw, klineSeconds: klineSeconds, klineCount: klineCount, window: window}
}

// Build fetches the quote and kline series for symbol and derives indicators.
// A quote failure fails the whole context; a kline failure only degrades the
// indicators.
func (b *Builder) Build(ctx context.Context, symbol string) (*types.AnalysisContext, error) {
	quote, err := b.gw.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	if quote.PreClose > 0 {
		quote.Change = quote.LastPrice - quote.PreClose
		quote.ChangePct = quote.Change / quote.PreClose * 100
	}

	klines, err := b.gw.Klines(ctx, symbol, b.klineSeconds, b.klineCount)
	if err != nil {
		logger.Warn(ctx, "Kline fetch failed, indicators degraded", "symbol", symbol, "error", err)
		klines = nil
	}
	klines = filterValid(klines)

	inds := indicator.Compute(klines, quote.LastPrice)

	window := klines
	if len(window) > b.window {
		window = window[len(window)-b.window:]
	}

	return &types.AnalysisContext{
		Symbol:     symbol,
		Name:       quote.Name,
		Exchange:   quote.Exchange,
		Quote:      quote,
		Klines:     window,
		Indicators: inds,
	}, nil
}

// filterValid drops bars with a non-positive close, which the data feed uses
// for holes in the series.
func filterValid(klines []types.Kline) []types.Kline {
	out := klines[:0]
	for _, k := range klines {
		if k.Close > 0 {
			out = append(out, k)
		}
	}
	return out
}
