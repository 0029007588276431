package service

import (
	"context"
	"encoding/json"
	"time"

	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/entity"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/internal/repository/unitofwork"
	"gsu-chatbot-be/pkg/embedding"
	"gsu-chatbot-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	ingestChunkSize    = 1500
	ingestChunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage acks payloads that can never succeed and nacks everything
// worth a retry.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Source == "" {
		cs.logger.Error("CATALOG", "Discarding malformed ingestion message", map[string]interface{}{
			"message_id": msg.UUID,
		})
		msg.Ack()
		return
	}

	chunks := utils.SplitText(payload.Content, ingestChunkSize, ingestChunkOverlap)
	cs.logger.Info("CATALOG", "Embedding catalog document", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(chunks),
	})

	now := time.Now()
	records := make([]*entity.CatalogChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			cs.logger.Error("CATALOG", "Embedding failed", map[string]interface{}{
				"source": payload.Source,
				"chunk":  i,
				"error":  err.Error(),
			})
			msg.Nack()
			return
		}

		records = append(records, &entity.CatalogChunk{
			Id:             uuid.New(),
			Source:         payload.Source,
			Topic:          payload.Topic,
			ChunkIndex:     i,
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      now,
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("CATALOG", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.CatalogChunkRepository().DeleteBySource(ctx, payload.Source); err != nil {
		cs.logger.Error("CATALOG", "Failed to delete previous chunks", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.CatalogChunkRepository().CreateBulk(ctx, records); err != nil {
		cs.logger.Error("CATALOG", "Failed to store chunks", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("CATALOG", "Failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info("CATALOG", "Catalog document indexed", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(records),
	})
	msg.Ack()
}
