// Copyright 2025 Vaal AI Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

// SearchResult is one ranked hit from a knowledge-base query.
//
// Rank values are contiguous starting at 1. RelevanceScore semantics depend
// on the phase that produced the final list: the cross-encoder score when
// reranking ran, the raw index similarity or distance otherwise.
type SearchResult struct {
	Rank           int     `json:"rank"`
	Text           string  `json:"text"`
	OriginalIndex  int     `json:"originalIndex"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// ScoredResult is a search hit annotated with its confidence tier. Domain
// adapters return these from their query surfaces.
type ScoredResult struct {
	SearchResult
	Confidence Confidence `json:"confidence"`
}

// QueryResponse is the reply shape of domain adapter queries.
type QueryResponse struct {
	Query        string         `json:"query"`
	Results      []ScoredResult `json:"results"`
	TotalResults int            `json:"totalResults"`
}

// NewQueryResponse annotates search results with confidence tiers and
// wraps them in a QueryResponse.
func NewQueryResponse(query string, results []SearchResult) *QueryResponse {
	scored := make([]ScoredResult, len(results))
	for i, r := range results {
		scored[i] = ScoredResult{SearchResult: r, Confidence: ConfidenceFor(r.RelevanceScore)}
	}
	return &QueryResponse{
		Query:        query,
		Results:      scored,
		TotalResults: len(scored),
	}
}

// BuildSummary reports the outcome of building a knowledge base.
type BuildSummary struct {
	Name           string `json:"name"`
	DocumentCount  int    `json:"documentCount"`
	EmbeddingModel string `json:"embeddingModel"`
	Dimension      int    `json:"dimension"`
}
