package transcript

import (
	"context"
	"strings"

	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/schedule"
)

// StructuredExtractor turns transcript text into course records ahead of
// schedule generation so later generations can skip the parsing call.
type StructuredExtractor struct {
	llm   llm.LLMProvider
	model string
}

func NewStructuredExtractor(provider llm.LLMProvider, model string) *StructuredExtractor {
	return &StructuredExtractor{llm: provider, model: model}
}

func (s *StructuredExtractor) Extract(ctx context.Context, text string) (*schedule.ParsedTranscript, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	return schedule.ParseTranscript(ctx, s.llm, s.model, text)
}
