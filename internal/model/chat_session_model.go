package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatSession ids come from the client, so the key is text rather than uuid.
type ChatSession struct {
	Id            string         `gorm:"type:text;primaryKey"`
	Title         string         `gorm:"type:text;not null"`
	PipelineState datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
