package analyzer

import (
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"futures-ai-trader/internal/types"
)

// Keyword lexicons for the fallback path. Matching counts words present, not
// total occurrences.
var (
	bullishWords = []string{"bullish", "long", "buy", "uptrend", "upside", "breakout"}
	bearishWords = []string{"bearish", "short", "sell", "downtrend", "downside", "breakdown"}
)

// ParseDecision turns raw model output into a fully populated Decision. The
// strict path extracts the first JSON object with per-field defaults; a
// structural failure routes to the keyword fallback instead of propagating.
func ParseDecision(raw, symbol, name, exchange string) types.Decision {
	cleaned := stripFences(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return parseFallback(raw, symbol, name, exchange)
	}

	jsonStr := cleaned[start : end+1]
	if !gjson.Valid(jsonStr) {
		return parseFallback(raw, symbol, name, exchange)
	}
	r := gjson.Parse(jsonStr)

	d := types.Decision{
		Symbol:   symbol,
		Name:     name,
		Exchange: exchange,

		SentimentScore:  intField(r, "sentiment_score", 50),
		TrendPrediction: strField(r, "trend_prediction", "sideways"),
		OperationAdvice: strField(r, "operation_advice", "observe"),
		Confidence:      strField(r, "confidence_level", "medium"),

		Direction:    normalizeDirection(planField(r, "direction").String()),
		EntryPrice:   planField(r, "entry_price").Float(),
		StopLoss:     planField(r, "stop_loss").Float(),
		TakeProfit:   planField(r, "take_profit").Float(),
		PositionSize: intResult(planField(r, "position_size"), 1),

		RiskLevel:   strField(r, "dashboard.risk_assessment.risk_level", "medium"),
		RiskWarning: strField(r, "risk_warning", ""),
		Summary:     strField(r, "analysis_summary", ""),
		KeyPoints:   strField(r, "key_points", ""),

		RawResponse: raw,
		Source:      types.ParsedJSON,
		Success:     true,
	}
	if d.SentimentScore < 0 {
		d.SentimentScore = 0
	}
	if d.SentimentScore > 100 {
		d.SentimentScore = 100
	}
	return d
}

// parseFallback scores the raw text by keyword presence. A clear majority of
// bullish words (more than one ahead) reads LONG, the mirror reads SHORT,
// anything else is WAIT. Confidence is forced low to flag the degraded path.
func parseFallback(raw, symbol, name, exchange string) types.Decision {
	lower := strings.ToLower(raw)

	bull, bear := 0, 0
	for _, w := range bullishWords {
		if strings.Contains(lower, w) {
			bull++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(lower, w) {
			bear++
		}
	}

	score, trend, advice := 50, "sideways", "observe"
	direction := types.Wait
	switch {
	case bull > bear+1:
		score, trend, advice, direction = 70, "bullish", "long", types.Long
	case bear > bull+1:
		score, trend, advice, direction = 30, "bearish", "short", types.Short
	}

	summary := raw
	if len(summary) > 300 {
		cut := 300
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}

	return types.Decision{
		Symbol:   symbol,
		Name:     name,
		Exchange: exchange,

		SentimentScore:  score,
		TrendPrediction: trend,
		OperationAdvice: advice,
		Confidence:      "low",

		Direction:    direction,
		PositionSize: 1,
		RiskLevel:    "medium",
		RiskWarning:  "structured parse failed, result may be unreliable",
		Summary:      summary,
		KeyPoints:    "keyword fallback, advisory only",

		RawResponse: raw,
		Source:      types.ParsedFallback,
		Success:     true,
	}
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}

// planField reads a trade-plan field, preferring the nested dashboard
// location with a top-level fallback.
func planField(r gjson.Result, key string) gjson.Result {
	if v := r.Get("dashboard.trade_plan." + key); v.Exists() {
		return v
	}
	return r.Get(key)
}

func strField(r gjson.Result, path, def string) string {
	if v := r.Get(path); v.Exists() && v.String() != "" {
		return v.String()
	}
	return def
}

func intField(r gjson.Result, path string, def int) int {
	return intResult(r.Get(path), def)
}

func intResult(v gjson.Result, def int) int {
	if !v.Exists() {
		return def
	}
	return int(v.Int())
}

func normalizeDirection(s string) types.Direction {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG":
		return types.Long
	case "SHORT":
		return types.Short
	default:
		return types.Wait
	}
}
