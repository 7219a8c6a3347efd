package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"futures-ai-trader/internal/gateway"
	"futures-ai-trader/internal/types"
)

// countingGateway records every call so tests can prove the gateway was never
// contacted.
type countingGateway struct {
	calls int
}

func (g *countingGateway) Connect(ctx context.Context) error { g.calls++; return nil }
func (g *countingGateway) Connected() bool                   { g.calls++; return true }
func (g *countingGateway) Close()                            { g.calls++ }

func (g *countingGateway) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	g.calls++
	return types.Quote{}, gateway.ErrQuoteMissing
}

func (g *countingGateway) Klines(ctx context.Context, symbol string, barSeconds, count int) ([]types.Kline, error) {
	g.calls++
	return nil, nil
}

func (g *countingGateway) Account(ctx context.Context) (*types.AccountInfo, error) {
	g.calls++
	return nil, nil
}

func (g *countingGateway) Positions(ctx context.Context) ([]types.PositionInfo, error) {
	g.calls++
	return nil, nil
}

func (g *countingGateway) InsertOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.OrderTicket, error) {
	g.calls++
	return nil, gateway.ErrNotConnected
}

func (g *countingGateway) WaitUpdate(ctx context.Context) error { g.calls++; return nil }

func newTestSim(t *testing.T) *gateway.Sim {
	t.Helper()
	t.Setenv("TRADER_LOG_DIR", t.TempDir())

	sim := gateway.NewSim()
	if err := sim.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	sim.SetQuote(types.Quote{Symbol: "SHFE.au2506", LastPrice: 512})
	return sim
}

func openGate() *RiskGate {
	return NewRiskGate(10, 10000, true)
}

func longSignal(volume int, price float64) types.TradeSignal {
	return types.TradeSignal{
		Symbol:    "SHFE.au2506",
		Direction: types.Long,
		Volume:    volume,
		Price:     price,
		Reason:    "test",
	}
}

func TestDryRunNeverContactsGateway(t *testing.T) {
	gw := &countingGateway{}
	exec := NewExecutor(gw, openGate(), 0)

	r := exec.ExecuteSignal(context.Background(), longSignal(2, 500), true)

	if gw.calls != 0 {
		t.Fatalf("gateway contacted %d times during dry run", gw.calls)
	}
	if !r.Success {
		t.Fatalf("dry run failed: %s", r.Message)
	}
	if r.Price != 500 {
		t.Errorf("price = %v, want proposed 500", r.Price)
	}
	if r.OrderID != "" {
		t.Errorf("dry run produced order id %q", r.OrderID)
	}
}

func TestDryRunMarketOrderKeepsZeroPrice(t *testing.T) {
	exec := NewExecutor(&countingGateway{}, openGate(), 0)

	r := exec.ExecuteSignal(context.Background(), longSignal(1, 0), true)
	if !r.Success || r.Price != 0 {
		t.Errorf("result = success %v price %v, want success with price 0", r.Success, r.Price)
	}
}

func TestExecuteSignalFills(t *testing.T) {
	sim := newTestSim(t)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ExecuteSignal(context.Background(), longSignal(2, 0), false)

	if !r.Success {
		t.Fatalf("execution failed: %s", r.Message)
	}
	if r.Price != 512 {
		t.Errorf("market order filled at %v, want quote price 512", r.Price)
	}
	if !strings.HasPrefix(r.OrderID, "SIM-") {
		t.Errorf("order id = %q", r.OrderID)
	}
	if exec.History().Len() != 1 {
		t.Errorf("history length = %d, want 1", exec.History().Len())
	}

	positions, _ := sim.Positions(context.Background())
	if len(positions) != 1 || positions[0].Direction != types.Long || positions[0].Volume != 2 {
		t.Errorf("positions after fill = %+v", positions)
	}
}

func TestExecuteSignalLimitOrderFillsAtLimit(t *testing.T) {
	sim := newTestSim(t)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ExecuteSignal(context.Background(), longSignal(1, 500.5), false)
	if !r.Success || r.Price != 500.5 {
		t.Errorf("result = success %v price %v, want fill at 500.5", r.Success, r.Price)
	}
}

func TestExecuteSignalRejectsBadInput(t *testing.T) {
	sim := newTestSim(t)
	exec := NewExecutor(sim, openGate(), time.Second)

	if r := exec.ExecuteSignal(context.Background(), types.TradeSignal{
		Symbol: "SHFE.au2506", Direction: types.Wait, Volume: 1,
	}, false); r.Success {
		t.Error("WAIT direction accepted")
	}

	if r := exec.ExecuteSignal(context.Background(), longSignal(0, 0), false); r.Success {
		t.Error("zero volume accepted")
	}
	if exec.History().Len() != 0 {
		t.Errorf("rejected signals recorded in history: %d", exec.History().Len())
	}
}

func TestExecuteSignalRiskRejection(t *testing.T) {
	sim := newTestSim(t)
	exec := NewExecutor(sim, NewRiskGate(10, 10000, false), time.Second)

	r := exec.ExecuteSignal(context.Background(), longSignal(1, 0), false)
	if r.Success {
		t.Fatal("expected rejection with auto trade disabled")
	}
	if !strings.Contains(r.Message, "risk check rejected") {
		t.Errorf("message = %q", r.Message)
	}
}

func TestExecuteSignalGatewayFailureVerbatim(t *testing.T) {
	sim := newTestSim(t)
	sim.FailNextOrder("exchange rejected: price out of range")
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ExecuteSignal(context.Background(), longSignal(1, 0), false)
	if r.Success {
		t.Fatal("expected failure")
	}
	if r.TimedOut {
		t.Error("gateway failure misreported as timeout")
	}
	if r.Message != "exchange rejected: price out of range" {
		t.Errorf("message = %q, want gateway message verbatim", r.Message)
	}
	if r.OrderID == "" {
		t.Error("failed order lost its id")
	}
}

func TestExecuteSignalWaitTimeout(t *testing.T) {
	sim := newTestSim(t)
	sim.HoldFills(true)
	exec := NewExecutor(sim, openGate(), 30*time.Millisecond)

	r := exec.ExecuteSignal(context.Background(), longSignal(1, 0), false)

	if r.Success {
		t.Fatal("expected failure on timeout")
	}
	if !r.TimedOut {
		t.Fatal("expected TimedOut to be set")
	}
	if !strings.Contains(r.Message, string(types.OrderSubmitted)) {
		t.Errorf("message = %q, want last reported status", r.Message)
	}
}

func TestExecuteAnalysisWaitShortCircuits(t *testing.T) {
	gw := &countingGateway{}
	exec := NewExecutor(gw, openGate(), 0)

	r := exec.ExecuteAnalysis(context.Background(), types.Decision{
		Symbol:    "SHFE.au2506",
		Direction: types.Wait,
		Summary:   "nothing to do",
	}, false)

	if gw.calls != 0 {
		t.Fatalf("gateway contacted %d times for WAIT decision", gw.calls)
	}
	if !r.Success || r.Volume != 0 || r.Direction != types.Wait {
		t.Errorf("result = %+v, want volume-0 WAIT success", r)
	}
	if !strings.Contains(r.Message, "advise wait") {
		t.Errorf("message = %q", r.Message)
	}
}

func TestExecuteAnalysisObserveAdviceShortCircuits(t *testing.T) {
	exec := NewExecutor(&countingGateway{}, openGate(), 0)

	r := exec.ExecuteAnalysis(context.Background(), types.Decision{
		Symbol:          "SHFE.au2506",
		Direction:       types.Long,
		OperationAdvice: "observe",
	}, false)

	if !r.Success || r.Volume != 0 {
		t.Errorf("observe advice not short-circuited: %+v", r)
	}
}

func TestExecuteAnalysisTrades(t *testing.T) {
	sim := newTestSim(t)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ExecuteAnalysis(context.Background(), types.Decision{
		Symbol:          "SHFE.au2506",
		Direction:       types.Long,
		OperationAdvice: "buy",
		SentimentScore:  75,
		EntryPrice:      510,
		StopLoss:        500,
		TakeProfit:      525,
		PositionSize:    2,
	}, false)

	if !r.Success {
		t.Fatalf("execution failed: %s", r.Message)
	}
	if r.Volume != 2 || r.Price != 510 {
		t.Errorf("result = volume %d price %v, want 2 at 510", r.Volume, r.Price)
	}
}

func TestExecuteAnalysisWaitTruncatesSummaryOnRuneBoundary(t *testing.T) {
	exec := NewExecutor(&countingGateway{}, openGate(), 0)

	// Two ASCII bytes followed by 3-byte runes put the 100-byte cut inside a
	// rune.
	summary := "xy" + strings.Repeat("多头排列震荡上行", 10)
	r := exec.ExecuteAnalysis(context.Background(), types.Decision{
		Symbol:    "SHFE.au2506",
		Direction: types.Wait,
		Summary:   summary,
	}, false)

	msg := strings.TrimPrefix(r.Message, "advise wait: ")
	if len(msg) > 100 {
		t.Errorf("summary not truncated: %d bytes", len(msg))
	}
	if !utf8.ValidString(msg) {
		t.Errorf("truncation split a rune: %q", msg)
	}
}

// protectiveRejectGateway fills the opening order but rejects every CLOSE
// insertion, so protective stop-loss/take-profit orders cannot be placed.
type protectiveRejectGateway struct {
	ticket        *gateway.OrderTicket
	closeAttempts int
}

func (g *protectiveRejectGateway) Connect(ctx context.Context) error { return nil }
func (g *protectiveRejectGateway) Connected() bool                   { return true }
func (g *protectiveRejectGateway) Close()                            {}

func (g *protectiveRejectGateway) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	return types.Quote{}, gateway.ErrQuoteMissing
}

func (g *protectiveRejectGateway) Klines(ctx context.Context, symbol string, barSeconds, count int) ([]types.Kline, error) {
	return nil, nil
}

func (g *protectiveRejectGateway) Account(ctx context.Context) (*types.AccountInfo, error) {
	return nil, nil
}

func (g *protectiveRejectGateway) Positions(ctx context.Context) ([]types.PositionInfo, error) {
	return nil, nil
}

func (g *protectiveRejectGateway) InsertOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.OrderTicket, error) {
	if req.Offset == types.OffsetClose {
		g.closeAttempts++
		return nil, errors.New("protective order rejected")
	}
	g.ticket = &gateway.OrderTicket{
		ID:         "P-1",
		Symbol:     req.Symbol,
		Side:       req.Side,
		Offset:     req.Offset,
		Volume:     req.Volume,
		LimitPrice: req.LimitPrice,
		Status:     types.OrderSubmitted,
	}
	return g.ticket, nil
}

func (g *protectiveRejectGateway) WaitUpdate(ctx context.Context) error {
	if g.ticket != nil && !g.ticket.Terminal() {
		g.ticket.Status = types.OrderFilled
		g.ticket.FilledVolume = g.ticket.Volume
		g.ticket.TradePrice = g.ticket.LimitPrice
	}
	return nil
}

func TestProtectiveOrderFailureKeepsPrimaryResult(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	gw := &protectiveRejectGateway{}
	exec := NewExecutor(gw, openGate(), time.Second)

	sig := longSignal(2, 510)
	sig.StopLoss = 500
	sig.TakeProfit = 525

	r := exec.ExecuteSignal(context.Background(), sig, false)

	if !r.Success {
		t.Fatalf("primary result failed: %s", r.Message)
	}
	if r.Price != 510 || r.OrderID != "P-1" {
		t.Errorf("result = price %v order %q, want 510/P-1", r.Price, r.OrderID)
	}
	// Both protective legs must be attempted despite the rejections.
	if gw.closeAttempts != 2 {
		t.Errorf("protective attempts = %d, want 2", gw.closeAttempts)
	}
	if exec.History().Len() != 1 {
		t.Errorf("history length = %d, want 1", exec.History().Len())
	}
}

func TestExecuteAnalysisDefaultsPositionSize(t *testing.T) {
	sim := newTestSim(t)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ExecuteAnalysis(context.Background(), types.Decision{
		Symbol:          "SHFE.au2506",
		Direction:       types.Long,
		OperationAdvice: "buy",
	}, false)

	if !r.Success || r.Volume != 1 {
		t.Errorf("result = success %v volume %d, want volume defaulted to 1", r.Success, r.Volume)
	}
}
