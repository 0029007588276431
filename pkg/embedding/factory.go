package embedding

import (
	"fmt"
	"time"
)

func NewEmbeddingProvider(providerType, model, baseURL, apiKey string, timeout time.Duration) (EmbeddingProvider, error) {
	switch providerType {
	case "openai", "":
		if apiKey == "" {
			return nil, fmt.Errorf("openai embeddings require an API key")
		}
		return NewOpenAIProvider(apiKey, model, baseURL, timeout), nil
	case "ollama":
		return NewOllamaProvider(baseURL, model, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
