package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gsu-chatbot-be/internal/constant"
	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/retrieval"
)

var ErrInvalidMessage = errors.New("message is required and must be a non-empty string")

// TranscriptReader returns the newest transcript of a session, nil when the
// session has none.
type TranscriptReader interface {
	Latest(ctx context.Context, sessionID string) (*entity.Transcript, error)
}

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	Status(ctx context.Context) (*dto.ChatStatusResponse, error)
	QuickAction(ctx context.Context, req *dto.QuickActionRequest) *dto.QuickActionResponse
}

type ChatConfig struct {
	Provider      string
	Model         string
	MaxTokens     int
	Temperature   float64
	RetrievalTopK int
}

type chatbotService struct {
	pipeline    *pipeline.Pipeline
	llmProvider llm.LLMProvider
	contexts    retrieval.ContextProvider
	transcripts TranscriptReader
	logger      logger.ILogger
	cfg         ChatConfig
	now         func() time.Time
}

func NewChatbotService(
	p *pipeline.Pipeline,
	llmProvider llm.LLMProvider,
	contexts retrieval.ContextProvider,
	transcripts TranscriptReader,
	log logger.ILogger,
	cfg ChatConfig,
) IChatbotService {
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.RetrievalTopK <= 0 {
		cfg.RetrievalTopK = 3
	}
	return &chatbotService{
		pipeline:    p,
		llmProvider: llmProvider,
		contexts:    contexts,
		transcripts: transcripts,
		logger:      log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SendMessage gives the schedule pipeline the first chance at a message and
// falls back to an ordinary completion enriched with whatever context the
// session has.
func (s *chatbotService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrInvalidMessage
	}
	history := normalizeHistory(req.ConversationHistory)

	var chatContext string
	if req.SessionId != "" {
		res := s.pipeline.HandleMessage(ctx, req.SessionId, message, history)
		if res.Handled {
			return s.pipelineResponse(res), nil
		}
		chatContext = res.ChatContext
	}

	if req.Settings.QuickResponses {
		if reply, ok := quickResponse(message); ok {
			return &dto.SendMessageResponse{
				Response:      reply,
				Timestamp:     s.now(),
				QuickResponse: true,
			}, nil
		}
	}

	systemPrompt := buildSystemPrompt(req.Settings)
	var sources []retrieval.Chunk
	if req.Settings.UseRetrieval == nil || *req.Settings.UseRetrieval {
		chunks, err := s.contexts.Search(ctx, message, s.cfg.RetrievalTopK)
		// Search degrades everything except quota exhaustion to no context.
		if err != nil {
			return nil, err
		}
		if len(chunks) > 0 {
			systemPrompt += fmt.Sprintf(constant.RetrievalContextPromptV1, joinChunks(chunks))
			sources = chunks
		}
	}

	messages := []llm.Message{{Role: constant.ChatMessageRoleSystem, Content: systemPrompt}}
	if req.SessionId != "" {
		if tc := s.transcriptContext(ctx, req.SessionId); tc != "" {
			messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: tc})
		}
	}
	if chatContext != "" {
		messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: chatContext})
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: message})

	reply, err := s.llmProvider.Chat(ctx, messages, s.chatOptions(req.Settings)...)
	if err != nil {
		s.logger.Error("CHAT", "Chat completion failed", map[string]interface{}{
			"session_id": req.SessionId,
			"kind":       string(llm.KindOf(err)),
			"error":      err.Error(),
		})
		return nil, err
	}

	return &dto.SendMessageResponse{
		Response:  reply,
		Timestamp: s.now(),
		Sources:   sources,
	}, nil
}

func (s *chatbotService) Status(ctx context.Context) (*dto.ChatStatusResponse, error) {
	reply, err := s.llmProvider.Generate(ctx, constant.StatusProbeText,
		llm.WithModel(s.cfg.Model),
		llm.WithMaxTokens(20),
	)
	res := &dto.ChatStatusResponse{
		Status:   "online",
		Provider: s.cfg.Provider,
		Model:    s.cfg.Model,
		Reply:    reply,
	}
	if err != nil {
		res.Status = "offline"
		return res, err
	}
	return res, nil
}

func (s *chatbotService) QuickAction(ctx context.Context, req *dto.QuickActionRequest) *dto.QuickActionResponse {
	reply, ok := constant.QuickActions[req.Action]
	if !ok {
		reply = constant.DefaultQuickReply
	}
	return &dto.QuickActionResponse{Action: req.Action, Response: reply}
}

func (s *chatbotService) pipelineResponse(res *pipeline.Result) *dto.SendMessageResponse {
	out := &dto.SendMessageResponse{
		Response:       res.Reply,
		Timestamp:      s.now(),
		PipelineExited: res.Exited,
		Schedule:       res.Schedule,
		Validation:     res.Validation,
		ExportFormat:   res.ExportFormat,
		ErrorType:      string(res.ErrorKind),
	}
	if res.InPipeline() {
		out.PipelineState = string(res.State)
	}
	return out
}

func (s *chatbotService) chatOptions(settings dto.ChatSettings) []llm.Option {
	model := s.cfg.Model
	if settings.Model != "" {
		model = settings.Model
	}
	temperature := s.cfg.Temperature
	if settings.Temperature != nil {
		temperature = *settings.Temperature
	}
	maxTokens := s.cfg.MaxTokens
	if settings.MaxTokens > 0 {
		maxTokens = settings.MaxTokens
	}
	return []llm.Option{
		llm.WithModel(model),
		llm.WithTemperature(temperature),
		llm.WithMaxTokens(maxTokens),
	}
}

func (s *chatbotService) transcriptContext(ctx context.Context, sessionID string) string {
	if s.transcripts == nil {
		return ""
	}
	t, err := s.transcripts.Latest(ctx, sessionID)
	if err != nil {
		s.logger.Warn("CHAT", "Transcript lookup failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return ""
	}
	if t == nil || strings.TrimSpace(t.ExtractedText) == "" {
		return ""
	}
	return constant.TranscriptContextPrefix + truncateRunes(t.ExtractedText, constant.TranscriptContextLimit)
}

// normalizeHistory maps client roles onto user/assistant and drops empty turns.
func normalizeHistory(history []dto.ChatHistoryMessage) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		content := m.Content
		if content == "" {
			content = m.Text
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		role := constant.ChatMessageRoleAssistant
		if m.Role == constant.ChatMessageRoleUser {
			role = constant.ChatMessageRoleUser
		}
		out = append(out, llm.Message{Role: role, Content: content})
	}
	return out
}

// quickResponse matches canned replies exactly. Short queries also match
// with trailing punctuation.
func quickResponse(message string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(message))
	if reply, ok := constant.QuickResponses[key]; ok {
		return reply, true
	}
	if len(key) < 20 {
		for _, suffix := range []string{"!", "?"} {
			if !strings.HasSuffix(key, suffix) {
				continue
			}
			if reply, ok := constant.QuickResponses[strings.TrimSuffix(key, suffix)]; ok {
				return reply, true
			}
		}
	}
	return "", false
}

func buildSystemPrompt(settings dto.ChatSettings) string {
	personality, ok := constant.Personalities[settings.Personality]
	if !ok {
		personality = constant.Personalities[constant.DefaultPersonality]
	}
	style, ok := constant.ResponseStyles[settings.ResponseStyle]
	if !ok {
		style = constant.ResponseStyles[constant.DefaultResponseStyle]
	}
	return fmt.Sprintf(constant.ChatSystemPromptV1, personality, style)
}

func joinChunks(chunks []retrieval.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
