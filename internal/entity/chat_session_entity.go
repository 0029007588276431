package entity

import (
	"time"

	"gsu-chatbot-be/pkg/pipeline"
)

type ChatSession struct {
	Id            string
	Title         string
	PipelineState *pipeline.PipelineState
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
