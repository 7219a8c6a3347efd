package engine

import (
	"context"
	"errors"
	"fmt"

	"futures-ai-trader/internal/gateway"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/types"
)

// ClosePosition closes an existing position on symbol. filter is ALL, LONG or
// SHORT; the first matching position is selected. volume 0 closes the full
// position. The close order's direction is always the inverse of the
// position's, with offset CLOSE, and follows the same wait-to-terminal
// discipline as signal execution. Dry-run still reads positions to pick the
// target, then returns a synthetic success.
func (e *Executor) ClosePosition(ctx context.Context, symbol, filter string, volume int, dryRun bool) types.TradeResult {
	ts := timestamp()

	if !dryRun {
		if err := e.ensureConnected(ctx); err != nil {
			return closeFail(symbol, volume, fmt.Sprintf("gateway not connected: %v", err), ts)
		}
	}

	positions, err := e.gw.Positions(ctx)
	if err != nil {
		return closeFail(symbol, volume, fmt.Sprintf("fetch positions: %v", err), ts)
	}

	var target *types.PositionInfo
	for i := range positions {
		p := &positions[i]
		if p.Symbol != symbol {
			continue
		}
		if filter == FilterAll || string(p.Direction) == filter {
			target = p
			break
		}
	}
	if target == nil {
		return closeFail(symbol, 0, "no matching position", ts)
	}

	closeVolume := volume
	if closeVolume <= 0 {
		closeVolume = target.Volume
	}

	if dryRun {
		logger.Info(ctx, "Dry run close",
			"symbol", symbol,
			"position_direction", string(target.Direction),
			"volume", closeVolume,
		)
		return types.TradeResult{
			Success:   true,
			Symbol:    symbol,
			Direction: types.Close,
			Volume:    closeVolume,
			Message:   "dry run: close not submitted",
			Timestamp: ts,
		}
	}

	side := gateway.SideSell
	if target.Direction == types.Short {
		side = gateway.SideBuy
	}

	ticket, err := e.gw.InsertOrder(ctx, gateway.OrderRequest{
		Symbol: symbol,
		Side:   side,
		Offset: types.OffsetClose,
		Volume: closeVolume,
	})
	if err != nil {
		return closeFail(symbol, closeVolume, fmt.Sprintf("insert close order: %v", err), ts)
	}

	if err := e.waitTerminal(ctx, ticket); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return types.TradeResult{
				Success:   false,
				TimedOut:  true,
				Symbol:    symbol,
				Direction: types.Close,
				Volume:    closeVolume,
				OrderID:   ticket.ID,
				Message:   fmt.Sprintf("close wait timed out, last reported status %s", ticket.Status),
				Timestamp: ts,
			}
		}
		r := closeFail(symbol, closeVolume, fmt.Sprintf("close wait: %v", err), ts)
		r.OrderID = ticket.ID
		return r
	}

	if ticket.Status == types.OrderFailed {
		r := closeFail(symbol, closeVolume, ticket.Message, ts)
		r.OrderID = ticket.ID
		return r
	}

	result := types.TradeResult{
		Success:   true,
		Symbol:    symbol,
		Direction: types.Close,
		Volume:    closeVolume,
		Price:     ticket.TradePrice,
		OrderID:   ticket.ID,
		Message:   "position closed",
		Timestamp: ts,
	}

	logger.Trade(ctx, symbol, string(types.Close), closeVolume, ticket.TradePrice, ticket.ID,
		"position_direction", string(target.Direction),
	)
	e.record(result, fmt.Sprintf("close %s position", target.Direction))

	return result
}

func closeFail(symbol string, volume int, msg, ts string) types.TradeResult {
	return types.TradeResult{
		Success:   false,
		Symbol:    symbol,
		Direction: types.Close,
		Volume:    volume,
		Message:   msg,
		Timestamp: ts,
	}
}
