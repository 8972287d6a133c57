package cohere

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vaalai/sentinel/ai"
)

const embedPath = "/v1/embed"

// Embedder implements ai.Embedder against the Cohere embed API, using the
// asymmetric input types: search_document for index builds, search_query at
// search time. Over-long inputs are truncated from the end.
type Embedder struct {
	client    *client
	model     string
	batchSize int
	logger    *slog.Logger
}

type embedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
	Truncate  string   `json:"truncate"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// newEmbedder is the internal constructor returning the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	logger := slog.Default().With("component", "cohere-embedder")
	return &Embedder{
		client:    newClient(config.BaseURL, config.APIKey, config.Timeout, config.MaxRetries, logger),
		model:     config.EmbeddingModel,
		batchSize: config.BatchSize,
		logger:    logger,
	}, nil
}

// NewEmbedder creates an embedder using the provided configuration.
//
// Returns the ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedDocuments generates document-side embeddings for a batch of texts,
// splitting into sub-requests when the batch exceeds the configured cap.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	e.logger.Debug("embedding documents", "count", len(texts))

	results := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		vectors, err := e.embed(ctx, texts[start:end], ai.InputTypeDocument)
		if err != nil {
			return nil, fmt.Errorf("embed batch at offset %d: %w", start, err)
		}
		results = append(results, vectors...)
	}
	return results, nil
}

// EmbedQuery generates the query-side embedding for a single text.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text}, ai.InputTypeQuery)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("cohere: empty embedding response")
	}
	return vectors[0], nil
}

// Model returns the embedding model identifier.
func (e *Embedder) Model() string {
	return e.model
}

func (e *Embedder) embed(ctx context.Context, texts []string, inputType ai.InputType) ([][]float32, error) {
	req := embedRequest{
		Texts:     texts,
		Model:     e.model,
		InputType: string(inputType),
		Truncate:  ai.TruncateEnd,
	}

	var resp embedResponse
	if err := e.client.postJSON(ctx, embedPath, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("cohere: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}
