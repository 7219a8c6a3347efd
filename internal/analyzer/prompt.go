package analyzer

import (
	"fmt"
	"strings"

	"futures-ai-trader/internal/types"
)

// systemPrompt carries the trading philosophy and the decision-dashboard JSON
// schema the model is asked to fill in.
const systemPrompt = `You are a professional futures analyst producing a trading decision dashboard.

## Core trading principles (follow strictly)

### 1. Trend following
- Bullish alignment: MA5 > MA10 > MA20, favour longs
- Bearish alignment: MA5 < MA10 < MA20, favour shorts
- Tangled averages mean no clear trend; advise observing

### 2. Risk control (futures are leveraged)
- Risk no more than 2% of capital on a single trade
- Always set an explicit stop-loss
- Avoid opening positions right before major data releases

### 3. Volume and open interest
- Rising volume with rising open interest strengthens the trend
- Rising volume with falling open interest can mark a reversal

### 4. Bias rule
- Bias above 3% means price is stretched from MA5, beware of pullbacks
- Bias below -3% is oversold, a bounce is possible

## Output format: one JSON object

` + "```json" + `
{
    "sentiment_score": <integer 0-100>,
    "trend_prediction": "bullish/bearish/sideways",
    "operation_advice": "long/short/observe",
    "confidence_level": "high/medium/low",
    "dashboard": {
        "trade_plan": {
            "direction": "LONG/SHORT/WAIT",
            "entry_price": <number>,
            "stop_loss": <number>,
            "take_profit": <number>,
            "position_size": <lots, integer>,
            "risk_reward_ratio": <number>
        },
        "risk_assessment": {
            "risk_level": "high/medium/low",
            "risk_points": ["..."]
        }
    },
    "analysis_summary": "<summary, about 100 words>",
    "key_points": "<3-5 key points, comma separated>",
    "risk_warning": "<risk warning>"
}
` + "```" + `

Scores of 80-100 mean strong long conditions, 60-79 lean long, 40-59 observe, 0-39 lean short.`

// BuildPrompt renders the analysis request for one contract.
func BuildPrompt(ac *types.AnalysisContext) string {
	q := ac.Quote
	ind := ac.Indicators

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n# Analysis request\n\n")

	fmt.Fprintf(&b, "## Contract\n| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Symbol | **%s** |\n", ac.Symbol)
	fmt.Fprintf(&b, "| Name | **%s** |\n", ac.Name)
	fmt.Fprintf(&b, "| Exchange | %s |\n", ac.Exchange)
	fmt.Fprintf(&b, "| Quote time | %s |\n\n", q.Datetime)

	fmt.Fprintf(&b, "## Latest quote\n| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Last | %.2f |\n| Open | %.2f |\n| High | %.2f |\n| Low | %.2f |\n",
		q.LastPrice, q.Open, q.High, q.Low)
	fmt.Fprintf(&b, "| Prev close | %.2f |\n| Change | %.2f%% |\n", q.PreClose, q.ChangePct)
	fmt.Fprintf(&b, "| Volume | %d |\n| Open interest | %d |\n\n", q.Volume, q.OpenInterest)

	fmt.Fprintf(&b, "## Moving averages\n| MA | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| MA5 | %.2f |\n| MA10 | %.2f |\n| MA20 | %.2f |\n\n", ind.MA5, ind.MA10, ind.MA20)

	fmt.Fprintf(&b, "## Trend\n| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Trend | %s |\n| Alignment | %s |\n", ind.Trend, ind.Alignment)
	fmt.Fprintf(&b, "| Bias vs MA5 | %.2f%% |\n| System signal | %s |\n", ind.BiasMA5, ind.Signal)
	fmt.Fprintf(&b, "| RSI(14) | %.1f |\n| MACD histogram | %.3f |\n\n", ind.RSI14, ind.MACDHist)

	fmt.Fprintf(&b, "## Volume\n| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Status | %s |\n| Volume ratio | %.2f |\n\n", ind.VolumeStatus, ind.VolumeRatio)

	if len(ac.Klines) > 0 {
		fmt.Fprintf(&b, "## Recent bars (oldest first)\n| Date | Open | High | Low | Close | Volume |\n|---|---|---|---|---|---|\n")
		for _, k := range ac.Klines {
			fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %.2f | %d |\n",
				k.Datetime, k.Open, k.High, k.Low, k.Close, k.Volume)
		}
		b.WriteString("\n")
	}

	if len(ac.Headlines) > 0 {
		b.WriteString("## Recent headlines\n")
		for _, h := range ac.Headlines {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Produce the decision dashboard for **%s (%s)**. Respond with the complete JSON object only.\n", ac.Name, ac.Symbol)
	return b.String()
}
