package dto

import (
	"time"

	"gsu-chatbot-be/pkg/retrieval"
	"gsu-chatbot-be/pkg/schedule"
)

// ChatHistoryMessage accepts both shapes the web client has sent over time.
type ChatHistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
}

type ChatSettings struct {
	Personality    string   `json:"personality,omitempty"`
	ResponseStyle  string   `json:"responseStyle,omitempty"`
	QuickResponses bool     `json:"quickResponses,omitempty"`
	UseRetrieval   *bool    `json:"useRetrieval,omitempty"`
	Model          string   `json:"model,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens      int      `json:"maxTokens,omitempty" validate:"omitempty,gte=1,lte=4096"`
}

type SendMessageRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []ChatHistoryMessage `json:"conversationHistory,omitempty" validate:"dive"`
	SessionId           string               `json:"sessionId,omitempty" validate:"omitempty,max=128"`
	Settings            ChatSettings         `json:"settings"`
}

type SendMessageResponse struct {
	Response       string                      `json:"response"`
	Timestamp      time.Time                   `json:"timestamp"`
	PipelineState  string                      `json:"pipelineState,omitempty"`
	PipelineExited bool                        `json:"pipelineExited,omitempty"`
	Schedule       *schedule.GeneratedSchedule `json:"schedule,omitempty"`
	Validation     *schedule.Validation        `json:"validation,omitempty"`
	ExportFormat   string                      `json:"exportFormat,omitempty"`
	ErrorType      string                      `json:"errorType,omitempty"`
	QuickResponse  bool                        `json:"quickResponse,omitempty"`
	Sources        []retrieval.Chunk           `json:"sources,omitempty"`
}

type ChatStatusResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Reply    string `json:"reply,omitempty"`
}

type QuickActionRequest struct {
	Action string `json:"action" validate:"required"`
}

type QuickActionResponse struct {
	Action   string `json:"action"`
	Response string `json:"response"`
}
