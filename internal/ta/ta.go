// Package ta holds the low-level indicator math. Moving averages and the
// volume ratio are computed directly; RSI and MACD go through go-talib.
package ta

import (
	talib "github.com/markcheno/go-talib"
)

// SMA returns the mean of the last n values, or 0 when there is not enough
// data for the window.
func SMA(vals []float64, n int) float64 {
	if n <= 0 || len(vals) < n {
		return 0
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// VolumeRatio compares the latest value against the mean of the last n values
// (the latest included, as the reference series does it). Returns 1 when the
// mean is zero and 0 when there is not enough data.
func VolumeRatio(vols []float64, n int) float64 {
	if n <= 0 || len(vols) < n {
		return 0
	}
	avg := SMA(vols, n)
	if avg <= 0 {
		return 1
	}
	return vols[len(vols)-1] / avg
}

// RSI returns the latest Wilder RSI value, or 0 when the series is too short.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}
	out := talib.Rsi(closes, period)
	if len(out) == 0 {
		return 0
	}
	return out[len(out)-1]
}

// MACDHist returns the latest MACD(12,26,9) histogram value, or 0 when the
// series is too short for the slow EMA plus signal line.
func MACDHist(closes []float64) float64 {
	if len(closes) < 35 {
		return 0
	}
	_, _, hist := talib.Macd(closes, 12, 26, 9)
	if len(hist) == 0 {
		return 0
	}
	return hist[len(hist)-1]
}
