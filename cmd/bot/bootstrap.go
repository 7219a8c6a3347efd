package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"futures-ai-trader/internal/engine"
	"futures-ai-trader/internal/engine/engineobs"
	"futures-ai-trader/internal/gateway"
	"futures-ai-trader/internal/llm"
	"futures-ai-trader/internal/llm/gemini"
	"futures-ai-trader/internal/llm/llmobs"
	"futures-ai-trader/internal/llm/noop"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/store"
	"futures-ai-trader/internal/trace"
	"futures-ai-trader/internal/tradelog"
	"futures-ai-trader/internal/types"
)

// initializeSystem loads the environment and sets up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func compressOldLogs(ctx context.Context) {
	v := os.Getenv("TRADER_LOG_RETENTION_DAYS")
	if v == "" {
		return
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(ctx, "Invalid TRADER_LOG_RETENTION_DAYS", "value", v)
		return
	}
	if err := tradelog.CompressOlder(days); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

// initializeGateway returns the trading gateway. The live transport is an
// external collaborator, so this build always runs against the simulator; a
// LIVE config without use_sim is called out loudly.
func initializeGateway(ctx context.Context, cfg *store.Config) gateway.Gateway {
	if cfg.Mode == "LIVE" && !cfg.Gateway.UseSim {
		logger.Warn(ctx, "LIVE mode configured but no live transport is bundled - using simulator")
	}
	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will not reach any exchange")
	}

	sim := gateway.NewSim()
	for _, sym := range cfg.Symbols {
		seedSim(sim, sym)
	}
	return sim
}

// seedSim populates the simulator with a deterministic random-walk history so
// the bot produces meaningful indicators out of the box.
func seedSim(sim *gateway.Sim, symbol string) {
	var seed int64
	for _, c := range symbol {
		seed = seed*31 + int64(c)
	}
	rng := rand.New(rand.NewSource(seed))

	price := 400 + rng.Float64()*400
	start := time.Now().AddDate(0, 0, -60)

	klines := make([]types.Kline, 0, 60)
	for i := 0; i < 60; i++ {
		open := price
		close := open + (rng.Float64()-0.48)*open*0.02
		high := open
		if close > high {
			high = close
		}
		low := open
		if close < low {
			low = close
		}
		klines = append(klines, types.Kline{
			Symbol:   symbol,
			Datetime: start.AddDate(0, 0, i).Format("2006-01-02"),
			Open:     open,
			High:     high * (1 + rng.Float64()*0.005),
			Low:      low * (1 - rng.Float64()*0.005),
			Close:    close,
			Volume:   int64(8000 + rng.Intn(12000)),
		})
		price = close
	}

	last := klines[len(klines)-1]
	sim.SetKlines(symbol, klines)
	sim.SetQuote(types.Quote{
		Symbol:    symbol,
		LastPrice: last.Close,
		Open:      last.Open,
		High:      last.High,
		Low:       last.Low,
		PreClose:  klines[len(klines)-2].Close,
		Volume:    last.Volume,
		Datetime:  time.Now().Format("2006-01-02 15:04:05"),
	})
}

// initializeProvider picks the decision source.
func initializeProvider(ctx context.Context, cfg *store.Config) llm.Provider {
	var provider llm.Provider
	switch cfg.LLM.Provider {
	case "GEMINI":
		provider = gemini.New(cfg)
	default:
		provider = noop.New()
		logger.Warn(ctx, "No model provider configured - using noop provider (always WAIT)")
	}
	return llmobs.Wrap(provider)
}

// initializeTrader builds the executor with its risk gate and wraps it with
// observability middleware. The bare executor is returned alongside so the
// caller can read trade history.
func initializeTrader(cfg *store.Config, gw gateway.Gateway) (engine.Trader, *engine.Executor) {
	gate := engine.NewRiskGate(cfg.Risk.MaxPosition, cfg.Risk.MarginPerLot, cfg.Risk.AutoTrade)
	exec := engine.NewExecutor(gw, gate, time.Duration(cfg.Risk.OrderWaitSeconds)*time.Second)
	return engineobs.Wrap(exec), exec
}
