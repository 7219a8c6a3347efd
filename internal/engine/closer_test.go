package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"futures-ai-trader/internal/gateway"
	"futures-ai-trader/internal/types"
)

func simWithLong(t *testing.T, volume int) *gateway.Sim {
	t.Helper()
	sim := newTestSim(t)
	sim.AddPosition(types.PositionInfo{
		Symbol:    "SHFE.au2506",
		Direction: types.Long,
		Volume:    volume,
		CostPrice: 500,
		Margin:    float64(volume) * 10000,
	})
	return sim
}

func TestClosePositionFull(t *testing.T) {
	sim := simWithLong(t, 3)
	exec := NewExecutor(sim, openGate(), time.Second)

	// Volume 0 means close everything.
	r := exec.ClosePosition(context.Background(), "SHFE.au2506", FilterAll, 0, false)

	if !r.Success {
		t.Fatalf("close failed: %s", r.Message)
	}
	if r.Direction != types.Close || r.Volume != 3 {
		t.Errorf("result = %v/%d, want CLOSE/3", r.Direction, r.Volume)
	}

	positions, _ := sim.Positions(context.Background())
	if len(positions) != 0 {
		t.Errorf("positions after full close = %+v", positions)
	}
}

func TestClosePositionPartial(t *testing.T) {
	sim := simWithLong(t, 5)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ClosePosition(context.Background(), "SHFE.au2506", FilterAll, 2, false)

	if !r.Success || r.Volume != 2 {
		t.Fatalf("result = success %v volume %d, want partial close of 2", r.Success, r.Volume)
	}

	positions, _ := sim.Positions(context.Background())
	if len(positions) != 1 || positions[0].Volume != 3 {
		t.Errorf("positions after partial close = %+v", positions)
	}
}

func TestClosePositionDirectionFilter(t *testing.T) {
	sim := simWithLong(t, 3)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ClosePosition(context.Background(), "SHFE.au2506", "SHORT", 0, false)
	if r.Success {
		t.Fatal("SHORT filter matched a LONG position")
	}
	if !strings.Contains(r.Message, "no matching position") {
		t.Errorf("message = %q", r.Message)
	}

	r = exec.ClosePosition(context.Background(), "SHFE.au2506", "LONG", 0, false)
	if !r.Success {
		t.Errorf("LONG filter failed: %s", r.Message)
	}
}

func TestClosePositionNoMatch(t *testing.T) {
	sim := newTestSim(t)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ClosePosition(context.Background(), "SHFE.au2506", FilterAll, 0, false)
	if r.Success {
		t.Fatal("expected failure with no positions")
	}
	if r.Volume != 0 {
		t.Errorf("volume = %d, want 0", r.Volume)
	}
}

func TestClosePositionDryRun(t *testing.T) {
	sim := simWithLong(t, 3)
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ClosePosition(context.Background(), "SHFE.au2506", FilterAll, 0, true)

	if !r.Success || r.Volume != 3 {
		t.Fatalf("dry run result = success %v volume %d", r.Success, r.Volume)
	}

	// The position must be untouched.
	positions, _ := sim.Positions(context.Background())
	if len(positions) != 1 || positions[0].Volume != 3 {
		t.Errorf("dry run mutated positions: %+v", positions)
	}
}

func TestClosePositionShortUsesBuy(t *testing.T) {
	sim := newTestSim(t)
	sim.AddPosition(types.PositionInfo{
		Symbol:    "SHFE.au2506",
		Direction: types.Short,
		Volume:    2,
		CostPrice: 520,
		Margin:    20000,
	})
	exec := NewExecutor(sim, openGate(), time.Second)

	r := exec.ClosePosition(context.Background(), "SHFE.au2506", "SHORT", 0, false)
	if !r.Success {
		t.Fatalf("close failed: %s", r.Message)
	}

	positions, _ := sim.Positions(context.Background())
	if len(positions) != 0 {
		t.Errorf("short position not closed: %+v", positions)
	}
}

func TestClosePositionWaitTimeout(t *testing.T) {
	sim := simWithLong(t, 1)
	sim.HoldFills(true)
	exec := NewExecutor(sim, openGate(), 30*time.Millisecond)

	r := exec.ClosePosition(context.Background(), "SHFE.au2506", FilterAll, 0, false)

	if r.Success || !r.TimedOut {
		t.Fatalf("result = success %v timed_out %v, want timed-out failure", r.Success, r.TimedOut)
	}
}
