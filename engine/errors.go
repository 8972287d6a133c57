package engine

import "errors"

var (
	// ErrEmbedderRequired is returned when an engine is constructed
	// without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrRerankerRequired is returned when a search requests reranking
	// but the engine has no reranker.
	ErrRerankerRequired = errors.New("reranker is required")

	// ErrKnowledgeBaseNotFound is returned when an operation names a
	// knowledge base that has not been built or loaded.
	ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")

	// ErrNoDocuments is returned when a build is attempted with an
	// empty document collection.
	ErrNoDocuments = errors.New("no documents to index")

	// ErrUpstreamService wraps failures from the embedding or rerank
	// service. Searches fail hard on these rather than degrade.
	ErrUpstreamService = errors.New("upstream AI service failed")
)
