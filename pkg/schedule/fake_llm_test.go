package schedule

import (
	"context"
	"sync"

	"gsu-chatbot-be/pkg/llm"
)

type llmCall struct {
	messages []llm.Message
	options  *llm.Options
}

// scriptedLLM returns queued replies in order and records every call.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   []llmCall
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.calls)
	s.calls = append(s.calls, llmCall{messages: history, options: llm.ApplyOptions(opts...)})
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "{}", nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
