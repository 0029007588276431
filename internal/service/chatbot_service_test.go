package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gsu-chatbot-be/internal/constant"
	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatHarness struct {
	svc         IChatbotService
	llm         *stubLLM
	contexts    *stubContexts
	transcripts *stubTranscripts
	pipeline    *pipeline.Pipeline
}

func newChatHarness() *chatHarness {
	h := &chatHarness{
		llm:         &stubLLM{reply: "Library hours are 8am to 10pm."},
		contexts:    &stubContexts{},
		transcripts: &stubTranscripts{},
		pipeline:    newTestPipeline(&stubGenerator{schedule: sampleSchedule()}),
	}
	h.svc = NewChatbotService(h.pipeline, h.llm, h.contexts, h.transcripts, logger.NewNopLogger(), ChatConfig{
		Provider: "openai",
		Model:    "gpt-3.5-turbo",
	})
	return h
}

func TestSendMessage_RejectsBlankMessage(t *testing.T) {
	h := newChatHarness()
	_, err := h.svc.SendMessage(context.Background(), &dto.SendMessageRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.Empty(t, h.llm.calls)
}

func TestSendMessage_PipelineHandlesTrigger(t *testing.T) {
	h := newChatHarness()
	res, err := h.svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		Message:   "Can you help me plan my next semester?",
		SessionId: "s1",
	})
	require.NoError(t, err)

	assert.Equal(t, pipeline.MajorQuestion, res.Response)
	assert.Equal(t, string(pipeline.StateCollectingMajor), res.PipelineState)
	assert.Empty(t, h.llm.calls)
}

func TestSendMessage_PipelineExit(t *testing.T) {
	h := newChatHarness()
	ctx := context.Background()
	h.pipeline.Store().Update(ctx, "s1", pipeline.StateCollectingWorkload, pipeline.Data{Major: "Biology"})

	res, err := h.svc.SendMessage(ctx, &dto.SendMessageRequest{Message: "cancel", SessionId: "s1"})
	require.NoError(t, err)

	assert.True(t, res.PipelineExited)
	assert.Empty(t, res.PipelineState)
	assert.Equal(t, pipeline.ExitMessage, res.Response)
}

func TestSendMessage_QuickResponses(t *testing.T) {
	tests := []struct {
		name    string
		message string
		enabled bool
		quick   bool
	}{
		{"exact", "hello", true, true},
		{"case and whitespace", "  Hello ", true, true},
		{"short with punctuation", "hi!", true, true},
		{"trailing question mark", "Help?", true, true},
		{"punctuation only", "!", true, false},
		{"disabled", "hello", false, false},
		{"no match", "where is the library?", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newChatHarness()
			res, err := h.svc.SendMessage(context.Background(), &dto.SendMessageRequest{
				Message:  tt.message,
				Settings: dto.ChatSettings{QuickResponses: tt.enabled},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.quick, res.QuickResponse)
			if tt.quick {
				assert.Empty(t, h.llm.calls)
			} else {
				assert.Len(t, h.llm.calls, 1)
			}
		})
	}
}

func TestSendMessage_BuildsContext(t *testing.T) {
	h := newChatHarness()
	h.contexts.chunks = []retrieval.Chunk{
		{ID: "c1", Text: "Library South is open 24/5 during finals.", Score: 0.9},
	}
	h.transcripts.transcript = &entity.Transcript{
		SessionId:     "s1",
		ExtractedText: "BIOL 2107 A 4.0",
		UploadedAt:    time.Now(),
	}
	temp := 0.2

	res, err := h.svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		Message:   "When is the library open?",
		SessionId: "s1",
		ConversationHistory: []dto.ChatHistoryMessage{
			{Role: "user", Content: "hi"},
			{Role: "bot", Text: "Hello there"},
			{Role: "user", Content: ""},
		},
		Settings: dto.ChatSettings{Personality: "formal", ResponseStyle: "concise", Temperature: &temp},
	})
	require.NoError(t, err)
	require.Len(t, h.llm.calls, 1)

	msgs := h.llm.calls[0]
	require.Len(t, msgs, 5)

	assert.Equal(t, constant.ChatMessageRoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, constant.Personalities["formal"])
	assert.Contains(t, msgs[0].Content, constant.ResponseStyles["concise"])
	assert.Contains(t, msgs[0].Content, "IMPORTANT: Use the following GSU-specific information")
	assert.Contains(t, msgs[0].Content, "Library South is open 24/5")

	assert.Equal(t, constant.TranscriptContextPrefix+"BIOL 2107 A 4.0", msgs[1].Content)
	assert.Equal(t, llm.Message{Role: "user", Content: "hi"}, msgs[2])
	assert.Equal(t, llm.Message{Role: "assistant", Content: "Hello there"}, msgs[3])
	assert.Equal(t, llm.Message{Role: "user", Content: "When is the library open?"}, msgs[4])

	opts := h.llm.opts[0]
	assert.Equal(t, "gpt-3.5-turbo", opts.Model)
	assert.Equal(t, 0.2, opts.Temperature)
	assert.Equal(t, 500, opts.MaxTokens)

	assert.Len(t, res.Sources, 1)
	assert.Equal(t, "Library hours are 8am to 10pm.", res.Response)
}

func TestSendMessage_ScheduleContextAfterExportOffer(t *testing.T) {
	h := newChatHarness()
	ctx := context.Background()
	h.pipeline.Store().Update(ctx, "s1", pipeline.StateOfferingExport, pipeline.Data{
		Major:              "Biology",
		WorkloadPreference: "medium",
		Schedule:           sampleSchedule(),
	})

	_, err := h.svc.SendMessage(ctx, &dto.SendMessageRequest{Message: "Is BIOL 2107 hard?", SessionId: "s1"})
	require.NoError(t, err)
	require.Len(t, h.llm.calls, 1)

	var found bool
	for _, m := range h.llm.calls[0] {
		if m.Role == constant.ChatMessageRoleSystem && strings.Contains(m.Content, "BIOL 2107: Principles of Biology I") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSendMessage_RetrievalDisabled(t *testing.T) {
	h := newChatHarness()
	off := false
	_, err := h.svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		Message:  "Tell me about Atlanta",
		Settings: dto.ChatSettings{UseRetrieval: &off},
	})
	require.NoError(t, err)
	assert.Empty(t, h.contexts.queries)
}

func TestSendMessage_Errors(t *testing.T) {
	t.Run("retrieval quota propagates", func(t *testing.T) {
		h := newChatHarness()
		h.contexts.err = llm.NewError(llm.KindQuotaExceeded, "quota", nil)
		_, err := h.svc.SendMessage(context.Background(), &dto.SendMessageRequest{Message: "course catalog?"})
		assert.True(t, llm.IsQuotaExceeded(err))
		assert.Empty(t, h.llm.calls)
	})

	t.Run("completion failure is returned", func(t *testing.T) {
		h := newChatHarness()
		h.llm.err = llm.NewError(llm.KindInvalidAPIKey, "bad key", nil)
		_, err := h.svc.SendMessage(context.Background(), &dto.SendMessageRequest{Message: "course catalog?"})
		assert.Equal(t, llm.KindInvalidAPIKey, llm.KindOf(err))
	})
}

func TestStatusAndQuickAction(t *testing.T) {
	h := newChatHarness()
	ctx := context.Background()

	status, err := h.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "online", status.Status)
	assert.Equal(t, constant.StatusProbeText, h.llm.calls[0][0].Content)

	h.llm.err = errBoom
	status, err = h.svc.Status(ctx)
	assert.Error(t, err)
	assert.Equal(t, "offline", status.Status)

	res := h.svc.QuickAction(ctx, &dto.QuickActionRequest{Action: "audit"})
	assert.Equal(t, constant.QuickActions["audit"], res.Response)

	res = h.svc.QuickAction(ctx, &dto.QuickActionRequest{Action: "dance"})
	assert.Equal(t, constant.DefaultQuickReply, res.Response)
}
