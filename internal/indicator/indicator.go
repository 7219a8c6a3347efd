// Package indicator derives the full IndicatorSet from a kline series. It is
// a pure function of its inputs: no I/O, deterministic, never fails.
package indicator

import (
	"futures-ai-trader/internal/ta"
	"futures-ai-trader/internal/types"
)

const (
	// All three moving averages are zeroed below this many bars.
	minBarsForMA = 20
	// Volume classification needs a 5-bar baseline.
	volumeWindow = 5
)

// Compute derives moving averages, bias, trend alignment, signal and volume
// strength from an ordered (oldest to newest) kline series. lastPrice is the
// quote's last traded price; when 0 the latest close is used instead.
// Series shorter than 20 bars yield zeroed averages rather than an error.
func Compute(klines []types.Kline, lastPrice float64) types.IndicatorSet {
	closes := make([]float64, len(klines))
	vols := make([]float64, len(klines))
	for i, k := range klines {
		closes[i] = k.Close
		vols[i] = float64(k.Volume)
	}

	var set types.IndicatorSet
	if len(klines) >= minBarsForMA {
		set.MA5 = ta.SMA(closes, 5)
		set.MA10 = ta.SMA(closes, 10)
		set.MA20 = ta.SMA(closes, 20)
	}

	if lastPrice <= 0 && len(closes) > 0 {
		lastPrice = closes[len(closes)-1]
	}

	set.Alignment, set.Trend = classifyAlignment(set.MA5, set.MA10, set.MA20)
	set.BiasMA5 = bias(lastPrice, set.MA5)
	set.Signal, set.SignalDesc = classifySignal(set.Trend, set.BiasMA5)

	classifyVolume(&set, vols)

	set.RSI14 = ta.RSI(closes, 14)
	set.MACDHist = ta.MACDHist(closes)

	return set
}

// classifyAlignment maps the MA ordering onto exactly three cases: strictly
// ascending short-to-long is bullish, strictly descending is bearish, and
// everything else is tangled.
func classifyAlignment(ma5, ma10, ma20 float64) (types.Alignment, types.Trend) {
	switch {
	case ma5 > ma10 && ma10 > ma20:
		return types.AlignBullish, types.TrendUp
	case ma5 < ma10 && ma10 < ma20:
		return types.AlignBearish, types.TrendDown
	default:
		return types.AlignTangled, types.TrendSideways
	}
}

// bias is the percentage distance of price from MA5, 0 when MA5 is 0.
func bias(price, ma5 float64) float64 {
	if ma5 <= 0 {
		return 0
	}
	return (price - ma5) / ma5 * 100
}

// classifySignal applies the bias bands. In an up-trend a bias below 3% is a
// buy; at 3% or above the move is considered extended and the signal is hold.
// A down-trend is a sell, anything else waits.
func classifySignal(trend types.Trend, biasMA5 float64) (types.Signal, string) {
	switch {
	case trend == types.TrendUp && biasMA5 < 3:
		return types.SignalBuy, "uptrend with safe bias, consider buying"
	case trend == types.TrendUp:
		return types.SignalHold, "uptrend but overextended, avoid chasing"
	case trend == types.TrendDown:
		return types.SignalSell, "downtrend, stand aside or go short"
	default:
		return types.SignalWait, "trend unclear, wait"
	}
}

func classifyVolume(set *types.IndicatorSet, vols []float64) {
	if len(vols) < volumeWindow {
		set.VolumeStatus = types.VolumeUnknown
		return
	}

	ratio := ta.VolumeRatio(vols, volumeWindow)
	set.VolumeRatio = ratio
	set.AvgVolume = int64(ta.SMA(vols, volumeWindow))
	set.LastVolume = int64(vols[len(vols)-1])

	switch {
	case ratio > 2:
		set.VolumeStatus = types.VolumeSurge
	case ratio > 1.2:
		set.VolumeStatus = types.VolumeMildSurge
	case ratio < 0.5:
		set.VolumeStatus = types.VolumeShrink
	default:
		set.VolumeStatus = types.VolumeFlat
	}
}
