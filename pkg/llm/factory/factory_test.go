package factory

import (
	"testing"

	"gsu-chatbot-be/pkg/llm/ollama"
	"gsu-chatbot-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(ProviderConfig{Type: "openai", Model: "gpt-3.5-turbo", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	p, err = NewLLMProvider(ProviderConfig{Type: "ollama", Model: "llama3"})
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	_, err = NewLLMProvider(ProviderConfig{Type: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ProviderConfig{Type: "huggingface"})
	assert.Error(t, err)
}
