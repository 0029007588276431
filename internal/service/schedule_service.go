package service

import (
	"context"
	"errors"
	"fmt"

	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/export"
	"gsu-chatbot-be/pkg/pipeline"
)

var (
	ErrNoSchedule   = errors.New("no schedule found for this session")
	ErrInvalidState = errors.New("invalid pipeline state")
)

type IScheduleService interface {
	GetPipelineState(ctx context.Context, sessionId string) (*dto.PipelineStateResponse, error)
	UpdatePipelineState(ctx context.Context, sessionId string, req *dto.UpdatePipelineStateRequest) (*dto.PipelineStateResponse, error)
	GenerateSchedule(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.ScheduleResultResponse, error)
	Export(ctx context.Context, sessionId, format string) (*export.Document, error)
}

type scheduleService struct {
	pipeline    *pipeline.Pipeline
	transcripts TranscriptReader
	exporter    *export.Exporter
	logger      logger.ILogger
}

func NewScheduleService(p *pipeline.Pipeline, transcripts TranscriptReader, exporter *export.Exporter, log logger.ILogger) IScheduleService {
	return &scheduleService{
		pipeline:    p,
		transcripts: transcripts,
		exporter:    exporter,
		logger:      log,
	}
}

func (s *scheduleService) GetPipelineState(ctx context.Context, sessionId string) (*dto.PipelineStateResponse, error) {
	res := stateResponse(s.pipeline.State(ctx, sessionId))

	if s.transcripts != nil {
		t, err := s.transcripts.Latest(ctx, sessionId)
		if err != nil {
			s.logger.Warn("SCHEDULE", "Transcript lookup failed", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
		if t != nil {
			res.Transcript = &dto.TranscriptResponse{
				Id:         t.Id.String(),
				FileName:   t.FileName,
				FileUrl:    t.FileUrl,
				TextLength: len(t.ExtractedText),
				UploadedAt: t.UploadedAt,
			}
			if t.StructuredData != nil {
				res.Transcript.CourseCount = len(t.StructuredData.Courses)
			}
		}
	}
	return res, nil
}

func (s *scheduleService) UpdatePipelineState(ctx context.Context, sessionId string, req *dto.UpdatePipelineStateRequest) (*dto.PipelineStateResponse, error) {
	state, ok := pipeline.ParseState(req.State)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, req.State)
	}

	store := s.pipeline.Store()
	store.Update(ctx, sessionId, state, req.Data)
	return stateResponse(store.Get(ctx, sessionId)), nil
}

func (s *scheduleService) GenerateSchedule(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.ScheduleResultResponse, error) {
	res, err := s.pipeline.GenerateFromProcessing(ctx, req.SessionId, req.Text)
	if err != nil {
		return nil, err
	}
	return scheduleResult(res), nil
}

func (s *scheduleService) Export(ctx context.Context, sessionId, format string) (*export.Document, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	st := s.pipeline.State(ctx, sessionId)
	if st.Data.Schedule == nil {
		return nil, ErrNoSchedule
	}

	doc, err := s.exporter.Export(st.Data.Schedule, f)
	if err != nil {
		return nil, err
	}

	s.logger.Info("SCHEDULE", "Schedule exported", map[string]interface{}{
		"session_id": sessionId,
		"format":     string(f),
	})
	return doc, nil
}

func stateResponse(st *pipeline.PipelineState) *dto.PipelineStateResponse {
	return &dto.PipelineStateResponse{
		SessionId:  st.SessionID,
		State:      string(st.State),
		InPipeline: st.State.IsActive(),
		Data:       st.Data,
		UpdatedAt:  st.UpdatedAt,
	}
}
