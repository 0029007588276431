package unitofwork

import (
	"context"

	"gsu-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	TranscriptRepository() contract.TranscriptRepository
	CatalogChunkRepository() contract.CatalogChunkRepository
}
