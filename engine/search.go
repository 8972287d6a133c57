package engine

import (
	"context"
	"fmt"

	"github.com/vaalai/sentinel/core"
	"github.com/vaalai/sentinel/index"
)

const (
	// DefaultK is how many candidates the vector index retrieves before
	// reranking.
	DefaultK = 10

	// DefaultTopN is how many results a reranked search returns.
	DefaultTopN = 3
)

// SearchOption configures a single search.
type SearchOption func(*searchOptions)

type searchOptions struct {
	k             int
	topN          int
	rerankDisable bool
}

// WithK sets how many candidates the vector index retrieves. Values below
// one fall back to the default.
func WithK(k int) SearchOption {
	return func(o *searchOptions) { o.k = k }
}

// WithTopN sets how many results a reranked search returns. Values below
// one fall back to the default.
func WithTopN(n int) SearchOption {
	return func(o *searchOptions) { o.topN = n }
}

// WithRerankDisabled skips the rerank phase; the topN best candidates by
// vector similarity are returned, scored with the index's similarity
// measure.
func WithRerankDisabled() SearchOption {
	return func(o *searchOptions) { o.rerankDisable = true }
}

// Search runs a two-phase search against the named knowledge base: embed
// the query, retrieve the k nearest documents from the vector index, then
// rerank those candidates with the cross-encoder and return the topN best.
//
// Reranking is on by default and fails hard: a rerank error aborts the
// search with ErrUpstreamService rather than silently returning
// vector-similarity ordering.
func (e *Engine) Search(ctx context.Context, name, query string, opts ...SearchOption) ([]core.SearchResult, error) {
	options := searchOptions{k: DefaultK, topN: DefaultTopN}
	for _, opt := range opts {
		opt(&options)
	}
	if options.k < 1 {
		options.k = DefaultK
	}
	if options.topN < 1 {
		options.topN = DefaultTopN
	}

	kb, err := e.snapshot(name)
	if err != nil {
		return nil, err
	}

	queryVector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrUpstreamService, err)
	}

	k := min(options.k, len(kb.texts))
	hits, err := kb.index.Search(queryVector, k)
	if err != nil {
		return nil, fmt.Errorf("search index %q: %w", name, err)
	}

	e.logger.Debug("retrieved candidates", "name", name, "k", k, "hits", len(hits))

	if options.rerankDisable {
		if len(hits) > options.topN {
			hits = hits[:options.topN]
		}
		results := make([]core.SearchResult, len(hits))
		for i, hit := range hits {
			results[i] = core.SearchResult{
				Rank:           i + 1,
				Text:           kb.texts[hit.ID],
				OriginalIndex:  hit.ID,
				RelevanceScore: float64(hit.Score),
			}
		}
		return results, nil
	}

	return e.rerank(ctx, kb, query, hits, options.topN)
}

func (e *Engine) rerank(ctx context.Context, kb *knowledgeBase, query string, hits []index.Result, topN int) ([]core.SearchResult, error) {
	if e.reranker == nil {
		return nil, ErrRerankerRequired
	}

	candidates := make([]string, len(hits))
	for i, hit := range hits {
		candidates[i] = kb.texts[hit.ID]
	}

	topN = min(topN, len(candidates))
	scored, err := e.reranker.Rerank(ctx, query, candidates, topN)
	if err != nil {
		return nil, fmt.Errorf("%w: rerank: %v", ErrUpstreamService, err)
	}

	results := make([]core.SearchResult, 0, len(scored))
	for i, s := range scored {
		if s.Index < 0 || s.Index >= len(hits) {
			return nil, fmt.Errorf("rerank result index %d out of range", s.Index)
		}
		results = append(results, core.SearchResult{
			Rank:           i + 1,
			Text:           candidates[s.Index],
			OriginalIndex:  hits[s.Index].ID,
			RelevanceScore: s.RelevanceScore,
		})
	}
	return results, nil
}
