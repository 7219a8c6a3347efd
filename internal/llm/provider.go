// Package llm defines the decision-source contract: a text-generation
// provider whose availability can be checked before any call.
package llm

import "context"

type Provider interface {
	Name() string
	// Available reports whether the provider is configured and usable.
	// Callers must check it before Generate.
	Available() bool
	// Generate sends a prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
}
