package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string   `yaml:"mode"` // DRY_RUN or LIVE
	PollSeconds int      `yaml:"poll_seconds"`
	Symbols     []string `yaml:"symbols"`

	Gateway struct {
		UseSim        bool `yaml:"use_sim"`
		KlineSeconds  int  `yaml:"kline_seconds"`
		KlineCount    int  `yaml:"kline_count"`
		ContextWindow int  `yaml:"context_window"`
	} `yaml:"gateway"`

	Risk struct {
		MaxPosition      int     `yaml:"max_position"`
		MarginPerLot     float64 `yaml:"margin_per_lot"`
		AutoTrade        bool    `yaml:"auto_trade"`
		OrderWaitSeconds int     `yaml:"order_wait_seconds"`
	} `yaml:"risk"`

	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	News struct {
		Enabled        bool `yaml:"enabled"`
		MaxHeadlines   int  `yaml:"max_headlines"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols cannot be empty")
	}
	if c.Risk.MaxPosition <= 0 {
		return fmt.Errorf("risk.max_position must be positive, got %d", c.Risk.MaxPosition)
	}
	if c.Risk.MarginPerLot <= 0 {
		return fmt.Errorf("risk.margin_per_lot must be positive, got %.2f", c.Risk.MarginPerLot)
	}
	if c.Gateway.ContextWindow <= 0 || c.Gateway.ContextWindow > c.Gateway.KlineCount {
		return fmt.Errorf("gateway.context_window must be in 1..%d, got %d", c.Gateway.KlineCount, c.Gateway.ContextWindow)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.PollSeconds == 0 {
		c.PollSeconds = 30
	}
	if c.Gateway.KlineSeconds == 0 {
		c.Gateway.KlineSeconds = 86400 // daily bars
	}
	if c.Gateway.KlineCount == 0 {
		c.Gateway.KlineCount = 100
	}
	if c.Gateway.ContextWindow == 0 {
		c.Gateway.ContextWindow = 30
	}
	if c.Risk.MarginPerLot == 0 {
		c.Risk.MarginPerLot = 10000
	}
	if c.Risk.OrderWaitSeconds == 0 {
		c.Risk.OrderWaitSeconds = 60
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4096
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 10
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
