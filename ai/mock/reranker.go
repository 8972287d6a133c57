package mock

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/vaalai/sentinel/ai"
)

// MockReranker is a test double for ai.Reranker.
// It allows custom behavior injection via function fields.
type MockReranker struct {
	// RerankFunc is called by Rerank if set.
	// If nil, uses default token-overlap scoring.
	RerankFunc func(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error)

	callCount atomic.Int64
}

// NewMockReranker creates a mock reranker with default token-overlap scoring.
// Note: Returns concrete type to allow test assertions.
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Rerank scores each document by query-token coverage, the fraction of
// the query's tokens present in the document, and returns up to topN
// results ordered by descending score. A document containing every query
// token scores 1. Ties break on the lower document index for determinism.
func (m *MockReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error) {
	m.callCount.Add(1)

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, query, documents, topN)
	}

	queryTokens := tokenSet(query)
	results := make([]ai.RerankResult, 0, len(documents))
	for i, doc := range documents {
		results = append(results, ai.RerankResult{
			Index:          i,
			RelevanceScore: coverage(queryTokens, tokenSet(doc)),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].RelevanceScore > results[b].RelevanceScore
	})

	if topN > 0 && topN < len(results) {
		results = results[:topN]
	}
	return results, nil
}

// Model returns a fixed identifier for reporting.
func (m *MockReranker) Model() string {
	return "mock-rerank-v1"
}

// CallCount returns the number of times Rerank was called.
func (m *MockReranker) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockReranker) Reset() {
	m.callCount.Store(0)
	m.RerankFunc = nil
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		set[token] = struct{}{}
	}
	return set
}

func coverage(query, doc map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	found := 0
	for token := range query {
		if _, ok := doc[token]; ok {
			found++
		}
	}
	return float64(found) / float64(len(query))
}
