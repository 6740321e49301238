package llm

import (
	"testing"
	"time"

	"github.com/ppiankov/anchora/internal/model"
)

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil || p != nil {
		t.Errorf("Expected disabled provider, got %v, %v", p, err)
	}

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Expected openai, got %s", p.Name())
	}
	if p.Model() != "gpt-4o-mini" {
		t.Errorf("Expected default model gpt-4o-mini, got %s", p.Model())
	}

	if _, err := NewProvider(Config{Provider: "anthropic"}); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.Model = "gpt-4o"
	cfg.HTTP.HTTPSProxy = "http://proxy:3128"

	c := ConfigFromModel(cfg)
	if c.Timeout != 60*time.Second {
		t.Errorf("Expected 60s timeout, got %v", c.Timeout)
	}
	if c.Model != "gpt-4o" || c.HTTPSProxy != "http://proxy:3128" {
		t.Errorf("Unexpected config: %+v", c)
	}
	if c.Limiter == nil {
		t.Error("Expected limiter for positive request rate")
	}

	cfg.RateLimiting.RequestsPerSecond = 0
	if ConfigFromModel(cfg).Limiter != nil {
		t.Error("Expected no limiter when rate limiting is off")
	}
}
