// Package analyzer turns an AnalysisContext into a structured Decision via
// the configured decision source. The analysis call has no unrecoverable
// failure state: an unavailable or failing source yields a neutral WAIT
// decision with Success=false.
package analyzer

import (
	"context"

	"futures-ai-trader/internal/llm"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/types"
)

type Analyzer struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Available reports whether the decision source can be called.
func (a *Analyzer) Available() bool {
	return a.provider.Available()
}

// Analyze asks the decision source for a verdict on the given context.
func (a *Analyzer) Analyze(ctx context.Context, ac *types.AnalysisContext) types.Decision {
	if !a.provider.Available() {
		return neutralDecision(ac, types.ParsedUnavailable, "decision source unavailable")
	}

	prompt := BuildPrompt(ac)
	raw, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Decision source call failed", err, "symbol", ac.Symbol)
		return neutralDecision(ac, types.ParsedUnavailable, err.Error())
	}

	d := ParseDecision(raw, ac.Symbol, ac.Name, ac.Exchange)
	logger.Decision(ctx, d.Symbol, string(d.Direction), d.SentimentScore, d.OperationAdvice,
		"confidence", d.Confidence,
		"parse_source", string(d.Source),
	)
	return d
}

func neutralDecision(ac *types.AnalysisContext, source types.ParseSource, errMsg string) types.Decision {
	return types.Decision{
		Symbol:   ac.Symbol,
		Name:     ac.Name,
		Exchange: ac.Exchange,

		SentimentScore:  50,
		TrendPrediction: "sideways",
		OperationAdvice: "observe",
		Confidence:      "low",

		Direction:    types.Wait,
		PositionSize: 1,
		RiskLevel:    "medium",
		RiskWarning:  "analysis unavailable, manual judgement advised",
		Summary:      errMsg,

		Source:  source,
		Success: false,
		Error:   errMsg,
	}
}
