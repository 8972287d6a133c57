package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync/atomic"
)

// mockDimension is the vector width produced by the default behavior.
const mockDimension = 256

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields. The default
// behavior is safe for concurrent use; injected functions must be too if
// the test exercises concurrent paths.
type MockEmbedder struct {
	// EmbedDocumentsFunc is called by EmbedDocuments if set.
	// If nil, uses default deterministic behavior.
	EmbedDocumentsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQueryFunc is called by EmbedQuery if set.
	// If nil, uses default deterministic behavior.
	EmbedQueryFunc func(ctx context.Context, text string) ([]float32, error)

	callCount atomic.Int64
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedDocuments generates deterministic bag-of-words embeddings.
func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount.Add(1)

	if m.EmbedDocumentsFunc != nil {
		return m.EmbedDocumentsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = bagOfWordsVector(text, mockDimension)
	}
	return vectors, nil
}

// EmbedQuery generates a deterministic bag-of-words embedding. Queries and
// documents share the same vector space, so token overlap translates into
// cosine similarity.
func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	m.callCount.Add(1)

	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, text)
	}
	return bagOfWordsVector(text, mockDimension), nil
}

// Model returns a fixed identifier for reporting.
func (m *MockEmbedder) Model() string {
	return "mock-embed-v1"
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockEmbedder) Reset() {
	m.callCount.Store(0)
	m.EmbedDocumentsFunc = nil
	m.EmbedQueryFunc = nil
}

// bagOfWordsVector sums a fixed dense vector per token and normalizes the
// result. The same token always contributes the same direction, so texts
// with overlapping tokens produce similar vectors.
func bagOfWordsVector(text string, dim int) []float32 {
	vector := make([]float32, dim)
	for _, token := range Tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		seed := h.Sum32()

		for i := 0; i < dim; i++ {
			seed = seed*1664525 + 1013904223 // LCG constants
			vector[i] += float32(seed%1000)/1000.0 - 0.5
		}
	}

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		// Empty text still needs a valid unit vector.
		vector[0] = 1
		return vector
	}

	norm := float32(1.0 / math.Sqrt(sumSquares))
	for i := range vector {
		vector[i] *= norm
	}
	return vector
}

// Tokenize lowercases and splits text into bare word tokens. Exported so
// tests can reason about which tokens two texts share.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
