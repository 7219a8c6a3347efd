package ta

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6}

	if got := SMA(vals, 3); !almostEqual(got, 5) {
		t.Errorf("SMA(3) = %v, want 5", got)
	}
	if got := SMA(vals, 6); !almostEqual(got, 3.5) {
		t.Errorf("SMA(6) = %v, want 3.5", got)
	}
}

func TestSMAInsufficientData(t *testing.T) {
	if got := SMA([]float64{1, 2}, 5); got != 0 {
		t.Errorf("SMA on short series = %v, want 0", got)
	}
	if got := SMA(nil, 5); got != 0 {
		t.Errorf("SMA on nil = %v, want 0", got)
	}
	if got := SMA([]float64{1, 2, 3}, 0); got != 0 {
		t.Errorf("SMA with n=0 = %v, want 0", got)
	}
}

func TestVolumeRatio(t *testing.T) {
	// Latest bar is part of the averaging window.
	vols := []float64{50, 50, 50, 50, 300}
	if got := VolumeRatio(vols, 5); !almostEqual(got, 3.0) {
		t.Errorf("VolumeRatio = %v, want 3.0", got)
	}
}

func TestVolumeRatioEdgeCases(t *testing.T) {
	if got := VolumeRatio([]float64{10, 20}, 5); got != 0 {
		t.Errorf("VolumeRatio on short series = %v, want 0", got)
	}
	if got := VolumeRatio([]float64{0, 0, 0, 0, 0}, 5); !almostEqual(got, 1) {
		t.Errorf("VolumeRatio with zero mean = %v, want 1", got)
	}
}

func TestRSIBounds(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := RSI(closes, 14)
	if rsi < 0 || rsi > 100 {
		t.Fatalf("RSI out of bounds: %v", rsi)
	}
	// A strictly rising series must read overbought.
	if rsi <= 50 {
		t.Errorf("RSI on rising series = %v, want > 50", rsi)
	}
}

func TestRSIInsufficientData(t *testing.T) {
	if got := RSI([]float64{1, 2, 3}, 14); got != 0 {
		t.Errorf("RSI on short series = %v, want 0", got)
	}
}

func TestMACDHistInsufficientData(t *testing.T) {
	closes := make([]float64, 34)
	for i := range closes {
		closes[i] = 100
	}
	if got := MACDHist(closes); got != 0 {
		t.Errorf("MACDHist on 34 bars = %v, want 0", got)
	}
}

func TestMACDHistSign(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)*2
	}
	// Accelerating into the fast EMA keeps the histogram positive on a
	// steadily rising series.
	if got := MACDHist(closes); got <= 0 {
		t.Errorf("MACDHist on rising series = %v, want > 0", got)
	}
}
