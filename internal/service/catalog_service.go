package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/pkg/logger"
	"gsu-chatbot-be/pkg/retrieval"
)

var ErrEmptyQuery = errors.New("query is required")

const maxSearchTopK = 20

type ICatalogService interface {
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	Search(ctx context.Context, query string, topK int) (*dto.CatalogSearchResponse, error)
}

type catalogService struct {
	publisherService IPublisherService
	contexts         retrieval.ContextProvider
	logger           logger.ILogger
}

func NewCatalogService(publisherService IPublisherService, contexts retrieval.ContextProvider, log logger.ILogger) ICatalogService {
	return &catalogService{
		publisherService: publisherService,
		contexts:         contexts,
		logger:           log,
	}
}

// Ingest queues a document for chunking and embedding. Chunks already
// indexed under the same source are replaced once the consumer runs.
func (c *catalogService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	msgPayload := dto.PublishIngestDocumentMessage{
		Source:  req.Source,
		Topic:   req.Topic,
		Content: req.Content,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := c.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	c.logger.Info("CATALOG", "Document queued for ingestion", map[string]interface{}{
		"source":         req.Source,
		"content_length": len(req.Content),
	})
	return &dto.IngestDocumentResponse{Source: req.Source, Queued: true}, nil
}

func (c *catalogService) Search(ctx context.Context, query string, topK int) (*dto.CatalogSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = 3
	}
	if topK > maxSearchTopK {
		topK = maxSearchTopK
	}

	chunks, err := c.contexts.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	if chunks == nil {
		chunks = []retrieval.Chunk{}
	}
	return &dto.CatalogSearchResponse{Query: query, TopK: topK, Results: chunks}, nil
}
