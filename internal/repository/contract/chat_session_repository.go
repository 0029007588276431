package contract

import (
	"context"

	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/repository/specification"
	"gsu-chatbot-be/pkg/pipeline"
)

type ChatSessionRepository interface {
	// UpsertPipelineState writes the state column, inserting the session with
	// title when it does not exist yet.
	UpsertPipelineState(ctx context.Context, sessionId, title string, state *pipeline.PipelineState) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
}
