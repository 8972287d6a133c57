package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use and must
// bound every remote call with a timeout.
type Embedder interface {
	// EmbedDocuments generates document-side embeddings for a batch of
	// texts. The returned slice preserves input order, one vector per text.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates a query-side embedding for a single text.
	// Asymmetric models optimize this differently from document embedding;
	// symmetric models may delegate to the same path.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Model returns the embedding model identifier for reporting.
	Model() string
}

// Reranker scores (query, document) pairs with a cross-encoder model.
// Implementations must be thread-safe for concurrent use.
type Reranker interface {
	// Rerank scores documents against the query and returns up to topN
	// results ordered by descending relevance. Result indexes refer to
	// positions in the documents argument.
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error)

	// Model returns the rerank model identifier for reporting.
	Model() string
}
