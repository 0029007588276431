package dto

import "gsu-chatbot-be/pkg/retrieval"

type IngestDocumentRequest struct {
	Source  string `json:"source" validate:"required,max=255"`
	Topic   string `json:"topic" validate:"max=255"`
	Content string `json:"content" validate:"required"`
}

type IngestDocumentResponse struct {
	Source string `json:"source"`
	Queued bool   `json:"queued"`
}

// PublishIngestDocumentMessage is the payload on the ingestion topic.
type PublishIngestDocumentMessage struct {
	Source  string `json:"source"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

type CatalogSearchResponse struct {
	Query   string            `json:"query"`
	TopK    int               `json:"topK"`
	Results []retrieval.Chunk `json:"results"`
}
