package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/mapper"
	"gsu-chatbot-be/internal/model"
	"gsu-chatbot-be/internal/repository/contract"
	"gsu-chatbot-be/internal/repository/specification"
	"gsu-chatbot-be/pkg/pipeline"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatSessionRepositoryImpl) UpsertPipelineState(ctx context.Context, sessionId, title string, state *pipeline.PipelineState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	m := &model.ChatSession{
		Id:            sessionId,
		Title:         title,
		PipelineState: datatypes.JSON(payload),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pipeline_state", "updated_at"}),
	}).Create(m).Error
}

func (r *ChatSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	var m model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatSessionToEntity(&m), nil
}
