package mapper

import (
	"encoding/json"
	"time"

	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/model"
	"gsu-chatbot-be/pkg/pipeline"
	"gsu-chatbot-be/pkg/schedule"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// ChatSessionToEntity decodes the pipeline_state column. Rows with a
// malformed or empty column map to a nil state.
func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var state *pipeline.PipelineState
	if len(s.PipelineState) > 0 {
		var st pipeline.PipelineState
		if err := json.Unmarshal(s.PipelineState, &st); err == nil {
			state = &st
		}
	}

	return &entity.ChatSession{
		Id:            s.Id,
		Title:         s.Title,
		PipelineState: state,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) TranscriptToEntity(t *model.Transcript) *entity.Transcript {
	if t == nil {
		return nil
	}

	var structured *schedule.ParsedTranscript
	if len(t.StructuredData) > 0 {
		var p schedule.ParsedTranscript
		if err := json.Unmarshal(t.StructuredData, &p); err == nil {
			structured = &p
		}
	}

	return &entity.Transcript{
		Id:             t.Id,
		SessionId:      t.SessionId,
		FileName:       t.FileName,
		StoragePath:    t.StoragePath,
		FileUrl:        t.FileUrl,
		ExtractedText:  t.ExtractedText,
		StructuredData: structured,
		UploadedAt:     t.UploadedAt,
	}
}

func (m *ChatMapper) TranscriptToModel(t *entity.Transcript) (*model.Transcript, error) {
	if t == nil {
		return nil, nil
	}

	var structured datatypes.JSON
	if t.StructuredData != nil {
		b, err := json.Marshal(t.StructuredData)
		if err != nil {
			return nil, err
		}
		structured = datatypes.JSON(b)
	}

	return &model.Transcript{
		Id:             t.Id,
		SessionId:      t.SessionId,
		FileName:       t.FileName,
		StoragePath:    t.StoragePath,
		FileUrl:        t.FileUrl,
		ExtractedText:  t.ExtractedText,
		StructuredData: structured,
		UploadedAt:     t.UploadedAt,
	}, nil
}
