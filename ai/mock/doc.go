// Package mock provides test double implementations of the AI service
// interfaces.
//
// This package contains mock implementations of ai.Embedder and ai.Reranker
// for use in unit tests. The mocks allow tests to run without external AI
// services and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vectors, err := embedder.EmbedDocuments(ctx, []string{"test"})
//
//	// Custom behavior injection
//	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
// The default embedder builds deterministic bag-of-words vectors: each
// token hashes to a fixed dense vector, token vectors are summed and the
// result normalized. Texts sharing tokens therefore land close together,
// which is enough semantic structure for retrieval tests. The default
// reranker scores documents by token overlap with the query.
package mock
