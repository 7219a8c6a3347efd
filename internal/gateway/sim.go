package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"futures-ai-trader/internal/types"
)

// Sim is an in-memory gateway used for DRY_RUN mode and tests. It fills every
// resting order on the next WaitUpdate at the limit price, or at the seeded
// quote's last price for market orders, and keeps account and position state
// consistent with those fills.
type Sim struct {
	mu        sync.Mutex
	connected bool

	quotes    map[string]types.Quote
	klines    map[string][]types.Kline
	account   types.AccountInfo
	positions []types.PositionInfo

	pending []*OrderTicket
	nextID  int

	marginPerLot float64
	failNext     string // when set, the next update fails the order with this message
	holdFills    bool   // when set, WaitUpdate leaves orders resting
}

// NewSim creates a simulator with a funded demo account.
func NewSim() *Sim {
	return &Sim{
		quotes: map[string]types.Quote{},
		klines: map[string][]types.Kline{},
		account: types.AccountInfo{
			Balance:   1000000,
			Available: 800000,
		},
		marginPerLot: 10000,
	}
}

func (s *Sim) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *Sim) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Sim) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.pending = nil
}

// SetQuote seeds a quote snapshot. Name and exchange are filled from the
// symbol when absent.
func (s *Sim) SetQuote(q types.Quote) {
	if q.Name == "" {
		q.Name = SymbolName(q.Symbol)
	}
	if q.Exchange == "" {
		q.Exchange = ExchangeCode(q.Symbol)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Symbol] = q
}

func (s *Sim) SetKlines(symbol string, ks []types.Kline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.klines[symbol] = ks
}

func (s *Sim) SetAccount(a types.AccountInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = a
}

func (s *Sim) AddPosition(p types.PositionInfo) {
	if p.Exchange == "" {
		p.Exchange = ExchangeCode(p.Symbol)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append(s.positions, p)
}

// FailNextOrder makes the next WaitUpdate fail resting orders with msg.
func (s *Sim) FailNextOrder(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = msg
}

// HoldFills stops WaitUpdate from filling orders, leaving them resting.
func (s *Sim) HoldFills(hold bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdFills = hold
}

func (s *Sim) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return types.Quote{}, ErrNotConnected
	}
	q, ok := s.quotes[symbol]
	if !ok {
		return types.Quote{}, fmt.Errorf("%w: %s", ErrQuoteMissing, symbol)
	}
	return q, nil
}

func (s *Sim) Klines(ctx context.Context, symbol string, barSeconds, count int) ([]types.Kline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	ks := s.klines[symbol]
	if len(ks) > count {
		ks = ks[len(ks)-count:]
	}
	out := make([]types.Kline, len(ks))
	copy(out, ks)
	return out, nil
}

func (s *Sim) Account(ctx context.Context) (*types.AccountInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	a := s.account
	return &a, nil
}

func (s *Sim) Positions(ctx context.Context) ([]types.PositionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	out := make([]types.PositionInfo, len(s.positions))
	copy(out, s.positions)
	return out, nil
}

func (s *Sim) InsertOrder(ctx context.Context, req OrderRequest) (*OrderTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	if req.Volume <= 0 {
		return nil, fmt.Errorf("invalid order volume %d", req.Volume)
	}

	s.nextID++
	t := &OrderTicket{
		ID:         fmt.Sprintf("SIM-%06d", s.nextID),
		Symbol:     req.Symbol,
		Side:       req.Side,
		Offset:     req.Offset,
		Volume:     req.Volume,
		LimitPrice: req.LimitPrice,
		Status:     types.OrderSubmitted,
	}
	s.pending = append(s.pending, t)
	return t, nil
}

// WaitUpdate blocks briefly to mimic a round-trip, then advances every
// resting order to a terminal status.
func (s *Sim) WaitUpdate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Millisecond):
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ErrNotConnected
	}
	if s.holdFills {
		return nil
	}

	for _, t := range s.pending {
		if t.Terminal() {
			continue
		}
		if s.failNext != "" {
			t.Status = types.OrderFailed
			t.Message = s.failNext
			continue
		}
		s.fill(t)
	}
	s.failNext = ""
	s.pending = s.pending[:0]
	return nil
}

func (s *Sim) fill(t *OrderTicket) {
	price := t.LimitPrice
	if price <= 0 {
		if q, ok := s.quotes[t.Symbol]; ok {
			price = q.LastPrice
		}
	}
	t.Status = types.OrderFilled
	t.FilledVolume = t.Volume
	t.TradePrice = price

	if t.Offset == types.OffsetOpen {
		s.openPosition(t, price)
	} else {
		s.closePosition(t)
	}
}

func (s *Sim) openPosition(t *OrderTicket, price float64) {
	dir := types.Long
	if t.Side == SideSell {
		dir = types.Short
	}
	margin := float64(t.Volume) * s.marginPerLot
	s.account.Available -= margin
	s.account.Margin += margin
	s.positions = append(s.positions, types.PositionInfo{
		Symbol:    t.Symbol,
		Exchange:  ExchangeCode(t.Symbol),
		Direction: dir,
		Volume:    t.Volume,
		CostPrice: price,
		LastPrice: price,
		Margin:    margin,
	})
}

func (s *Sim) closePosition(t *OrderTicket) {
	// Closing with SELL targets a LONG position and vice versa.
	target := types.Long
	if t.Side == SideBuy {
		target = types.Short
	}
	for i := range s.positions {
		p := &s.positions[i]
		if p.Symbol != t.Symbol || p.Direction != target {
			continue
		}
		closed := t.Volume
		if closed > p.Volume {
			closed = p.Volume
		}
		released := float64(closed) / float64(p.Volume) * p.Margin
		p.Volume -= closed
		p.Margin -= released
		s.account.Available += released
		s.account.Margin -= released
		if p.Volume == 0 {
			s.positions = append(s.positions[:i], s.positions[i+1:]...)
		}
		return
	}
}
