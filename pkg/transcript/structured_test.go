package transcript

import (
	"context"
	"testing"

	"gsu-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedLLM struct {
	reply string
	err   error
}

func (c cannedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return c.reply, c.err
}

func (c cannedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return c.reply, c.err
}

func TestStructuredExtractor(t *testing.T) {
	t.Run("parses courses and gpa", func(t *testing.T) {
		s := NewStructuredExtractor(cannedLLM{reply: `{"courses":[{"code":"csc 1301","name":"Principles","grade":"A","credits":3}],"gpa":3.7,"totalCredits":30}`}, "gpt-4o-mini")
		out, err := s.Extract(context.Background(), "transcript")
		require.NoError(t, err)
		require.Len(t, out.Courses, 1)
		assert.Equal(t, "CSC 1301", out.Courses[0].Code)
		require.NotNil(t, out.GPA)
		assert.Equal(t, 3.7, *out.GPA)
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		s := NewStructuredExtractor(cannedLLM{err: llm.NewError(llm.KindTimeout, "slow", nil)}, "m")
		_, err := s.Extract(context.Background(), "transcript")
		assert.Equal(t, llm.KindTimeout, llm.KindOf(err))
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := NewStructuredExtractor(cannedLLM{}, "m").Extract(context.Background(), " ")
		assert.ErrorIs(t, err, ErrNoText)
	})
}
