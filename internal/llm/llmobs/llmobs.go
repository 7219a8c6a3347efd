// Package llmobs wraps a decision-source provider with tracing and timing.
package llmobs

import (
	"context"
	"time"

	"futures-ai-trader/internal/llm"
	"futures-ai-trader/internal/logger"
	"futures-ai-trader/internal/trace"
)

type observableProvider struct {
	inner llm.Provider
}

var _ llm.Provider = (*observableProvider)(nil)

func Wrap(p llm.Provider) llm.Provider {
	return &observableProvider{inner: p}
}

func (o *observableProvider) Name() string { return o.inner.Name() }

func (o *observableProvider) Available() bool { return o.inner.Available() }

func (o *observableProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Generate")
	defer span.End()

	start := time.Now()
	out, err := o.inner.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Model call failed", err,
			"provider", o.inner.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	logger.Debug(ctx, "Model call completed",
		"provider", o.inner.Name(),
		"prompt_chars", len(prompt),
		"response_chars", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
