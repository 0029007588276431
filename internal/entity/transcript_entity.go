package entity

import (
	"time"

	"gsu-chatbot-be/pkg/schedule"

	"github.com/google/uuid"
)

type Transcript struct {
	Id             uuid.UUID
	SessionId      string
	FileName       string
	StoragePath    string
	FileUrl        string
	ExtractedText  string
	StructuredData *schedule.ParsedTranscript
	UploadedAt     time.Time
}
