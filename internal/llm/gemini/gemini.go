// Package gemini implements the decision-source provider against the Google
// Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"futures-ai-trader/internal/store"
	"futures-ai-trader/internal/trace"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

type Provider struct {
	cfg      *store.Config
	endpoint string
	client   *http.Client
}

// New creates a Gemini-backed provider. The endpoint can be overridden with
// GEMINI_API_ENDPOINT for proxies.
func New(cfg *store.Config) *Provider {
	endpoint := defaultEndpoint
	if ep := os.Getenv("GEMINI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Provider{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *Provider) Name() string { return "gemini" }

func (p *Provider) Available() bool {
	return os.Getenv("GEMINI_API_KEY") != ""
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", errors.New("GEMINI_API_KEY missing")
	}

	model := p.cfg.LLM.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     p.cfg.LLM.Temperature,
			"maxOutputTokens": p.cfg.LLM.MaxTokens,
		},
	}

	bb, _ := json.Marshal(reqBody)
	url := fmt.Sprintf("%s/%s:generateContent", p.endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bb))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini http %d: %s", resp.StatusCode, string(body))
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		if block := gjson.GetBytes(body, "promptFeedback.blockReason"); block.Exists() {
			return "", fmt.Errorf("gemini blocked response: %s", block.String())
		}
		return "", fmt.Errorf("gemini response missing candidate text")
	}
	return text.String(), nil
}
