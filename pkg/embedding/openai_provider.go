package embedding

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gsu-chatbot-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements EmbeddingProvider with the OpenAI embeddings API.
type OpenAIProvider struct {
	client *goopenai.Client
	Model  goopenai.EmbeddingModel
}

func NewOpenAIProvider(apiKey, model, baseURL string, timeout time.Duration) EmbeddingProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if model == "" {
		model = string(goopenai.SmallEmbedding3)
	}
	return &OpenAIProvider{
		client: goopenai.NewClientWithConfig(cfg),
		Model:  goopenai.EmbeddingModel(model),
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: p.Model,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 {
		return nil, llm.NewError(llm.KindInvalidResponse, "openai returned no embeddings", nil)
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: resp.Data[0].Embedding,
		},
	}, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewError(llm.KindTimeout, "embedding request timed out", err)
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return llm.NewError(llm.KindQuotaExceeded, "OpenAI API quota exceeded", err)
		case apiErr.HTTPStatusCode == http.StatusUnauthorized:
			return llm.NewError(llm.KindInvalidAPIKey, "invalid OpenAI API key", err)
		}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return llm.NewError(llm.KindQuotaExceeded, "OpenAI API quota exceeded", err)
	}
	return llm.NewError(llm.KindUnavailable, "embedding request failed", err)
}
