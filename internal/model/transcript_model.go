package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Transcript struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      string         `gorm:"type:text;not null;index"`
	FileName       string         `gorm:"type:text;not null"`
	StoragePath    string         `gorm:"type:text"`
	FileUrl        string         `gorm:"type:text"`
	ExtractedText  string         `gorm:"type:text"`
	StructuredData datatypes.JSON `gorm:"type:jsonb"`
	UploadedAt     time.Time      `gorm:"autoCreateTime;index"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Transcript) TableName() string {
	return "transcripts"
}
