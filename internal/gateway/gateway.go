// Package gateway defines the market-data/order gateway contract. The real
// transport (authentication, sessions, networking) is an external
// collaborator; this package owns only the surface the trading core consumes,
// plus an in-memory simulator used for DRY_RUN and tests.
package gateway

import (
	"context"
	"errors"

	"futures-ai-trader/internal/types"
)

var (
	ErrNotConnected = errors.New("gateway not connected")
	ErrQuoteMissing = errors.New("quote not available")
)

// Side is the exchange-level order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderRequest describes one order insertion. LimitPrice 0 means market.
type OrderRequest struct {
	Symbol     string
	Side       Side
	Offset     types.Offset
	Volume     int
	LimitPrice float64
}

// OrderTicket is the mutable order handle returned by InsertOrder. The
// gateway advances Status on each WaitUpdate until it is terminal.
type OrderTicket struct {
	ID         string
	Symbol     string
	Side       Side
	Offset     types.Offset
	Volume     int
	LimitPrice float64

	Status       types.OrderStatus
	FilledVolume int
	TradePrice   float64
	Message      string
}

// Terminal reports whether the ticket has reached a final status.
func (t *OrderTicket) Terminal() bool {
	return t.Status == types.OrderFilled || t.Status == types.OrderFailed
}

// Gateway is the external trading gateway surface. All blocking calls take a
// context; WaitUpdate blocks until the gateway has applied at least one state
// update (order status, fills) or the context expires.
type Gateway interface {
	Connect(ctx context.Context) error
	Connected() bool
	Close()

	Quote(ctx context.Context, symbol string) (types.Quote, error)
	Klines(ctx context.Context, symbol string, barSeconds, count int) ([]types.Kline, error)
	Account(ctx context.Context) (*types.AccountInfo, error)
	Positions(ctx context.Context) ([]types.PositionInfo, error)

	InsertOrder(ctx context.Context, req OrderRequest) (*OrderTicket, error)
	WaitUpdate(ctx context.Context) error
}
