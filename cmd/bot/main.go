package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"futures-ai-trader/internal/analyzer"
	"futures-ai-trader/internal/engine"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/market"
	"futures-ai-trader/internal/news"
	"futures-ai-trader/internal/store"
	"futures-ai-trader/internal/trace"
	"futures-ai-trader/internal/tradelog"
)

type app struct {
	cfg      *store.Config
	builder  *market.Builder
	analyzer *analyzer.Analyzer
	trader   engine.Trader
	executor *engine.Executor
	scraper  *news.Scraper
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := trace.Shutdown(context.Background()); err != nil {
			logger.Warn(context.Background(), "Tracer shutdown failed", "error", err)
		}
	}()

	cfg, err := store.LoadConfig(configPath())
	if err != nil {
		logger.Error(ctx, "Failed to load config", "error", err)
		os.Exit(1)
	}

	compressOldLogs(ctx)

	gw := initializeGateway(ctx, cfg)
	if err := gw.Connect(ctx); err != nil {
		logger.Error(ctx, "Gateway connect failed", "error", err)
		os.Exit(1)
	}
	defer gw.Close()

	trader, executor := initializeTrader(cfg, gw)
	a := &app{
		cfg:      cfg,
		builder:  market.NewBuilder(gw, cfg.Gateway.KlineSeconds, cfg.Gateway.KlineCount, cfg.Gateway.ContextWindow),
		analyzer: analyzer.New(initializeProvider(ctx, cfg)),
		trader:   trader,
		executor: executor,
	}
	if cfg.News.Enabled {
		a.scraper = news.NewScraper(time.Duration(cfg.News.TimeoutSeconds) * time.Second)
	}

	logger.Info(ctx, "Trading bot started",
		"mode", cfg.Mode,
		"symbols", cfg.Symbols,
		"poll_seconds", cfg.PollSeconds,
		"auto_trade", cfg.Risk.AutoTrade,
	)

	a.run(ctx)

	logger.Info(context.Background(), "Trading bot stopped",
		"trades_recorded", a.executor.History().Len(),
	)
}

func configPath() string {
	if v := os.Getenv("TRADER_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

// run executes one analysis cycle immediately, then on every poll tick until
// the context is cancelled.
func (a *app) run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(a.cfg.PollSeconds) * time.Second)
	defer ticker.Stop()

	a.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.cycle(ctx)
		}
	}
}

func (a *app) cycle(ctx context.Context) {
	for _, symbol := range a.cfg.Symbols {
		if ctx.Err() != nil {
			return
		}
		a.analyzeSymbol(ctx, symbol)
	}
}

// analyzeSymbol runs the full pipeline for one contract: market context,
// optional headlines, model decision, execution.
func (a *app) analyzeSymbol(ctx context.Context, symbol string) {
	ctx, span := trace.StartSpan(ctx, "bot.AnalyzeSymbol")
	defer span.End()

	ac, err := a.builder.Build(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Market context build failed", err, "symbol", symbol)
		return
	}

	if a.scraper != nil {
		ac.Headlines = a.scraper.Headlines(ctx, ac.Name, a.cfg.News.MaxHeadlines)
	}

	decision := a.analyzer.Analyze(ctx, ac)
	if err := tradelog.AppendDecision(tradelog.DecisionEntry{
		Symbol:     decision.Symbol,
		Direction:  string(decision.Direction),
		Score:      decision.SentimentScore,
		Advice:     decision.OperationAdvice,
		Confidence: decision.Confidence,
		Source:     string(decision.Source),
		Price:      ac.Quote.LastPrice,
	}); err != nil {
		logger.Warn(ctx, "Decision log append failed", "error", err)
	}

	result := a.trader.ExecuteAnalysis(ctx, decision, a.cfg.Mode == "DRY_RUN")

	if b, err := json.MarshalIndent(result, "", "  "); err == nil {
		fmt.Println(string(b))
	}
}
