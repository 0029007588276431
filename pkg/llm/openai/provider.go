package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gsu-chatbot-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client    *goopenai.Client
	ModelName string
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

// NewOpenAIProvider builds a provider for the OpenAI API or any compatible
// endpoint when baseURL is set.
func NewOpenAIProvider(apiKey, modelName, baseURL string, timeout time.Duration) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIProvider{
		client:    goopenai.NewClientWithConfig(cfg),
		ModelName: modelName,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	messages := make([]goopenai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		if role == "model" || role == "bot" {
			role = llm.RoleAssistant
		}
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
	}
	if options.JSONMode {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", llm.NewError(llm.KindInvalidResponse, "openai returned no choices", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// classify maps go-openai failures onto llm kinds. Any 429 counts as quota
// exhaustion since that is how the API reports both billing and rate limits.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return llm.NewError(llm.KindTimeout, "openai request timed out", err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		code := fmt.Sprint(apiErr.Code)
		switch {
		case code == "insufficient_quota" || apiErr.Type == "insufficient_quota" || apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return llm.NewError(llm.KindQuotaExceeded, "OpenAI API quota exceeded", err)
		case code == "invalid_api_key" || apiErr.HTTPStatusCode == http.StatusUnauthorized:
			return llm.NewError(llm.KindInvalidAPIKey, "invalid OpenAI API key", err)
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return llm.NewError(llm.KindUnavailable, "openai service unavailable", err)
		}
		return llm.NewError(llm.KindGeneral, apiErr.Message, err)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.HTTPStatusCode == http.StatusTooManyRequests:
			return llm.NewError(llm.KindQuotaExceeded, "OpenAI API quota exceeded", err)
		case reqErr.HTTPStatusCode == http.StatusUnauthorized:
			return llm.NewError(llm.KindInvalidAPIKey, "invalid OpenAI API key", err)
		case reqErr.HTTPStatusCode >= http.StatusInternalServerError:
			return llm.NewError(llm.KindUnavailable, "openai service unavailable", err)
		}
	}

	return llm.NewError(llm.KindUnavailable, "openai request failed", err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}
