package service

import (
	"context"

	"gsu-chatbot-be/internal/constant"
	"gsu-chatbot-be/internal/repository/specification"
	"gsu-chatbot-be/internal/repository/unitofwork"
	"gsu-chatbot-be/pkg/pipeline"
)

// pipelineDurable persists pipeline states on the chat_sessions table.
type pipelineDurable struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPipelineDurable(uowFactory unitofwork.RepositoryFactory) pipeline.Durable {
	return &pipelineDurable{uowFactory: uowFactory}
}

func (d *pipelineDurable) Load(ctx context.Context, sessionID string) (*pipeline.PipelineState, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{Key: sessionID})
	if err != nil {
		return nil, err
	}
	if session == nil || session.PipelineState == nil {
		return nil, nil
	}
	st := session.PipelineState
	st.SessionID = sessionID
	return st, nil
}

func (d *pipelineDurable) Save(ctx context.Context, state *pipeline.PipelineState) error {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatSessionRepository().UpsertPipelineState(ctx, state.SessionID, constant.ScheduleTitle, state)
}
