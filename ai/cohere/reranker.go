package cohere

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vaalai/sentinel/ai"
)

const rerankPath = "/v1/rerank"

// Reranker implements ai.Reranker against the Cohere rerank API.
type Reranker struct {
	client *client
	model  string
	logger *slog.Logger
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// newReranker is the internal constructor returning the concrete type.
func newReranker(config *ai.Config) (*Reranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if config.RerankModel == "" {
		return nil, fmt.Errorf("cohere: rerank model required")
	}

	logger := slog.Default().With("component", "cohere-reranker")
	return &Reranker{
		client: newClient(config.BaseURL, config.APIKey, config.Timeout, config.MaxRetries, logger),
		model:  config.RerankModel,
		logger: logger,
	}, nil
}

// NewReranker creates a reranker using the provided configuration.
//
// Returns the ai.Reranker interface to enforce abstraction.
func NewReranker(config *ai.Config) (ai.Reranker, error) {
	return newReranker(config)
}

// Rerank scores documents against the query, returning up to topN results
// ordered by descending relevance.
func (r *Reranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	r.logger.Debug("reranking documents", "count", len(documents), "topN", topN)

	req := rerankRequest{
		Query:     query,
		Documents: documents,
		Model:     r.model,
		TopN:      topN,
	}
	var resp rerankResponse
	if err := r.client.postJSON(ctx, rerankPath, req, &resp); err != nil {
		return nil, err
	}

	results := make([]ai.RerankResult, 0, len(resp.Results))
	for _, res := range resp.Results {
		if res.Index < 0 || res.Index >= len(documents) {
			return nil, fmt.Errorf("cohere: rerank result index %d out of range", res.Index)
		}
		results = append(results, ai.RerankResult{
			Index:          res.Index,
			RelevanceScore: res.RelevanceScore,
		})
	}
	return results, nil
}

// Model returns the rerank model identifier.
func (r *Reranker) Model() string {
	return r.model
}
