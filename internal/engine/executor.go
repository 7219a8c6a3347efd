// Package engine contains the trading core: the risk gate, the order
// executor state machine and the position closer. Public operations never
// return an error; every outcome, including failure, is a TradeResult.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"futures-ai-trader/internal/gateway"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/tradelog"
	"futures-ai-trader/internal/types"
)

// Trader is the executor surface consumed by callers and obs middleware.
type Trader interface {
	ExecuteSignal(ctx context.Context, signal types.TradeSignal, dryRun bool) types.TradeResult
	ExecuteAnalysis(ctx context.Context, decision types.Decision, dryRun bool) types.TradeResult
	ClosePosition(ctx context.Context, symbol, filter string, volume int, dryRun bool) types.TradeResult
}

// FilterAll matches positions of any direction when closing.
const FilterAll = "ALL"

// Executor drives an approved signal through the order lifecycle:
// PENDING -> SUBMITTED -> FILLED | FAILED. It owns the trade history for its
// lifetime.
type Executor struct {
	gw      gateway.Gateway
	gate    *RiskGate
	history *History

	// waitTimeout bounds the fill wait; expiry yields a timed-out result
	// distinct from a failure. Zero means the caller's context is the only
	// bound.
	waitTimeout time.Duration
}

var _ Trader = (*Executor)(nil)

func NewExecutor(gw gateway.Gateway, gate *RiskGate, waitTimeout time.Duration) *Executor {
	return &Executor{
		gw:          gw,
		gate:        gate,
		history:     NewHistory(),
		waitTimeout: waitTimeout,
	}
}

// History returns the executor's trade record.
func (e *Executor) History() *History {
	return e.history
}

// Account exposes the gateway account snapshot through the trader facade.
func (e *Executor) Account(ctx context.Context) (*types.AccountInfo, error) {
	if err := e.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return e.gw.Account(ctx)
}

// Positions exposes the gateway position records through the trader facade.
func (e *Executor) Positions(ctx context.Context) ([]types.PositionInfo, error) {
	if err := e.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return e.gw.Positions(ctx)
}

// ExecuteSignal validates, risk-checks and submits one trade signal. With
// dryRun the gateway is never contacted and a synthetic success carrying the
// proposed price (0 for market) is returned.
func (e *Executor) ExecuteSignal(ctx context.Context, signal types.TradeSignal, dryRun bool) types.TradeResult {
	ts := timestamp()

	if dryRun {
		logger.Info(ctx, "Dry run trade",
			"symbol", signal.Symbol,
			"direction", string(signal.Direction),
			"volume", signal.Volume,
			"price", signal.Price,
		)
		return types.TradeResult{
			Success:   true,
			Symbol:    signal.Symbol,
			Direction: signal.Direction,
			Volume:    signal.Volume,
			Price:     signal.Price,
			Message:   "dry run: order not submitted",
			Timestamp: ts,
		}
	}

	if signal.Direction != types.Long && signal.Direction != types.Short {
		return failResult(signal, fmt.Sprintf("unsupported signal direction %q", signal.Direction), ts)
	}
	if signal.Volume <= 0 {
		return failResult(signal, fmt.Sprintf("volume must be a positive integer, got %d", signal.Volume), ts)
	}

	if err := e.ensureConnected(ctx); err != nil {
		return failResult(signal, fmt.Sprintf("gateway not connected: %v", err), ts)
	}

	account, err := e.gw.Account(ctx)
	if err != nil {
		logger.Warn(ctx, "Account fetch failed, funds check skipped", "error", err)
		account = nil
	}

	if v := e.gate.Check(signal, account); !v.Passed {
		logger.Risk(ctx, signal.Symbol, "SIGNAL_REJECTED",
			"reason", v.Reason,
			"direction", string(signal.Direction),
			"volume", signal.Volume,
		)
		return failResult(signal, "risk check rejected: "+v.Reason, ts)
	}

	return e.placeOrder(ctx, signal, ts)
}

// ExecuteAnalysis converts a Decision into a trade. WAIT decisions
// short-circuit to a volume-0 success without constructing an order.
func (e *Executor) ExecuteAnalysis(ctx context.Context, decision types.Decision, dryRun bool) types.TradeResult {
	if decision.Direction == types.Wait || decision.OperationAdvice == "observe" {
		return types.TradeResult{
			Success:   true,
			Symbol:    decision.Symbol,
			Direction: types.Wait,
			Volume:    0,
			Message:   "advise wait: " + truncate(decision.Summary, 100),
			Timestamp: timestamp(),
		}
	}

	volume := decision.PositionSize
	if volume <= 0 {
		volume = 1
	}
	var price float64
	if decision.EntryPrice > 0 {
		price = decision.EntryPrice
	}

	signal := types.TradeSignal{
		Symbol:     decision.Symbol,
		Direction:  decision.Direction,
		Volume:     volume,
		Price:      price,
		StopLoss:   decision.StopLoss,
		TakeProfit: decision.TakeProfit,
		Reason:     fmt.Sprintf("AI analysis: %s (score %d)", decision.OperationAdvice, decision.SentimentScore),
		Source:     "AI",
	}

	return e.ExecuteSignal(ctx, signal, dryRun)
}

func (e *Executor) placeOrder(ctx context.Context, signal types.TradeSignal, ts string) types.TradeResult {
	side := gateway.SideBuy
	if signal.Direction == types.Short {
		side = gateway.SideSell
	}

	logger.Debug(ctx, "Order pending",
		"symbol", signal.Symbol,
		"side", string(side),
		"status", string(types.OrderPending),
	)

	ticket, err := e.gw.InsertOrder(ctx, gateway.OrderRequest{
		Symbol:     signal.Symbol,
		Side:       side,
		Offset:     types.OffsetOpen,
		Volume:     signal.Volume,
		LimitPrice: signal.Price,
	})
	if err != nil {
		return failResult(signal, fmt.Sprintf("insert order: %v", err), ts)
	}

	logger.Debug(ctx, "Order submitted",
		"symbol", signal.Symbol,
		"order_id", ticket.ID,
		"status", string(ticket.Status),
	)

	if err := e.waitTerminal(ctx, ticket); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			// The order's true state is unknown; report what the gateway
			// last said so it can be reconciled out-of-band.
			return types.TradeResult{
				Success:   false,
				TimedOut:  true,
				Symbol:    signal.Symbol,
				Direction: signal.Direction,
				Volume:    signal.Volume,
				OrderID:   ticket.ID,
				Message:   fmt.Sprintf("order wait timed out, last reported status %s", ticket.Status),
				Timestamp: ts,
			}
		}
		r := failResult(signal, fmt.Sprintf("order wait: %v", err), ts)
		r.OrderID = ticket.ID
		return r
	}

	if ticket.Status == types.OrderFailed {
		r := failResult(signal, ticket.Message, ts)
		r.OrderID = ticket.ID
		return r
	}

	result := types.TradeResult{
		Success:   true,
		Symbol:    signal.Symbol,
		Direction: signal.Direction,
		Volume:    signal.Volume,
		Price:     ticket.TradePrice,
		OrderID:   ticket.ID,
		Message:   "order filled",
		Timestamp: ts,
	}

	logger.Trade(ctx, signal.Symbol, string(signal.Direction), signal.Volume, ticket.TradePrice, ticket.ID,
		"reason", signal.Reason,
	)
	e.record(result, signal.Reason)

	if signal.StopLoss > 0 || signal.TakeProfit > 0 {
		e.placeProtectiveOrders(ctx, signal)
	}

	return result
}

// placeProtectiveOrders rests opposing CLOSE limit orders at the stop-loss
// and take-profit prices. Best-effort: a failure here never affects the
// primary result.
func (e *Executor) placeProtectiveOrders(ctx context.Context, signal types.TradeSignal) {
	side := gateway.SideSell
	if signal.Direction == types.Short {
		side = gateway.SideBuy
	}

	for _, price := range []float64{signal.StopLoss, signal.TakeProfit} {
		if price <= 0 {
			continue
		}
		_, err := e.gw.InsertOrder(ctx, gateway.OrderRequest{
			Symbol:     signal.Symbol,
			Side:       side,
			Offset:     types.OffsetClose,
			Volume:     signal.Volume,
			LimitPrice: price,
		})
		if err != nil {
			logger.Warn(ctx, "Protective order placement failed",
				"symbol", signal.Symbol,
				"price", price,
				"error", err,
			)
		}
	}
}

// waitTerminal blocks on gateway updates until the ticket reaches a terminal
// status or the deadline expires.
func (e *Executor) waitTerminal(ctx context.Context, ticket *gateway.OrderTicket) error {
	if e.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.waitTimeout)
		defer cancel()
	}
	for !ticket.Terminal() {
		if err := e.gw.WaitUpdate(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) ensureConnected(ctx context.Context) error {
	if e.gw.Connected() {
		return nil
	}
	return e.gw.Connect(ctx)
}

func (e *Executor) record(result types.TradeResult, reason string) {
	e.history.Append(result)
	if err := tradelog.Append(tradelog.Entry{
		Symbol:    result.Symbol,
		Direction: string(result.Direction),
		Volume:    result.Volume,
		Price:     result.Price,
		OrderID:   result.OrderID,
		Reason:    reason,
		Success:   result.Success,
		Message:   result.Message,
	}); err != nil {
		logger.Warn(context.Background(), "Trade log append failed", "error", err)
	}
}

func failResult(signal types.TradeSignal, msg, ts string) types.TradeResult {
	return types.TradeResult{
		Success:   false,
		Symbol:    signal.Symbol,
		Direction: signal.Direction,
		Volume:    signal.Volume,
		Message:   msg,
		Timestamp: ts,
	}
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
