// Package noop provides a decision source that always advises waiting. Used
// when no model provider is configured.
package noop

import "context"

type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return "noop" }

func (p *Provider) Available() bool { return true }

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	return `{"sentiment_score": 50, "trend_prediction": "sideways", "operation_advice": "observe", "confidence_level": "low", "dashboard": {"trade_plan": {"direction": "WAIT"}}, "analysis_summary": "noop provider: no model configured"}`, nil
}
