package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/worker"
)

// NewProvider creates a provider from configuration. An empty provider name
// returns nil, nil: the generator is disabled and reviews must come from files.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel builds a client config from the application config
func ConfigFromModel(cfg *model.Config) Config {
	c := Config{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    time.Duration(cfg.LLM.Timeout) * time.Second,
		MaxTokens:  cfg.LLM.MaxTokens,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}
	if cfg.RateLimiting.RequestsPerSecond > 0 {
		c.Limiter = worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	}
	return c
}
