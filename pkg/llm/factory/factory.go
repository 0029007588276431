package factory

import (
	"fmt"
	"time"

	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/llm/ollama"
	"gsu-chatbot-be/pkg/llm/openai"
)

type ProviderConfig struct {
	Type    string // "openai" or "ollama"
	Model   string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	switch cfg.Type {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout), nil
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Type)
	}
}
