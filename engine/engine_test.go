package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaalai/sentinel/ai"
	"github.com/vaalai/sentinel/ai/mock"
	"github.com/vaalai/sentinel/core"
	"github.com/vaalai/sentinel/index"
)

// newTestEngine builds an engine over mock AI services. The mock embedder
// produces bag-of-words vectors, so token overlap between texts shows up
// as vector similarity.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *mock.MockEmbedder, *mock.MockReranker) {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	reranker := mock.NewMockReranker()
	eng, err := NewEngine(embedder, reranker, opts...)
	require.NoError(t, err)
	t.Cleanup(eng.Release)

	return eng, embedder, reranker
}

func animalDocs() []core.Document {
	return []core.Document{
		core.PlainText("The cheetah is the fastest land mammal and hunts on the African savanna"),
		core.PlainText("Load shedding stage six removes six thousand megawatts from the national grid"),
		core.PlainText("The blue whale is the largest mammal and lives in the open ocean"),
		core.PlainText("Income tax returns are filed with the revenue service every year"),
		core.PlainText("Bats are the only mammal capable of sustained flight"),
	}
}

func TestNewEngine(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewEngine(nil, mock.NewMockReranker())
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("nil reranker is allowed", func(t *testing.T) {
		eng, err := NewEngine(mock.NewMockEmbedder(), nil)
		require.NoError(t, err)
		eng.Release()
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		_, err := NewEngine(mock.NewMockEmbedder(), nil, WithPoolSize(0))
		assert.Error(t, err)

		_, err = NewEngine(mock.NewMockEmbedder(), nil, WithBatchSize(-1))
		assert.Error(t, err)
	})
}

func TestBuildIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("builds and reports summary", func(t *testing.T) {
		eng, embedder, _ := newTestEngine(t)

		summary, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		assert.Equal(t, "animals", summary.Name)
		assert.Equal(t, 5, summary.DocumentCount)
		assert.Equal(t, embedder.Model(), summary.EmbeddingModel)
		assert.Equal(t, 256, summary.Dimension)

		count, err := eng.DocumentCount("animals")
		require.NoError(t, err)
		assert.Equal(t, 5, count)
		assert.Equal(t, []string{"animals"}, eng.KnowledgeBases())
	})

	t.Run("rejects empty collections", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "empty", nil)
		assert.ErrorIs(t, err, ErrNoDocuments)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "", animalDocs())
		assert.Error(t, err)
	})

	t.Run("rebuild replaces previous state", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "kb", animalDocs())
		require.NoError(t, err)

		_, err = eng.BuildIndex(ctx, "kb", []core.Document{core.PlainText("just one doc")})
		require.NoError(t, err)

		count, err := eng.DocumentCount("kb")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("embed failure preserves previous state", func(t *testing.T) {
		eng, embedder, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "kb", animalDocs())
		require.NoError(t, err)

		embedder.EmbedDocumentsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, fmt.Errorf("service unavailable")
		}
		_, err = eng.BuildIndex(ctx, "kb", []core.Document{core.PlainText("new doc")})
		assert.ErrorIs(t, err, ErrUpstreamService)

		// The old knowledge base is still intact and searchable.
		count, err := eng.DocumentCount("kb")
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("inconsistent vector widths are rejected", func(t *testing.T) {
		eng, embedder, _ := newTestEngine(t, WithBatchSize(1))

		call := 0
		embedder.EmbedDocumentsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			call++
			if call == 1 {
				return [][]float32{{1, 0, 0}}, nil
			}
			return [][]float32{{1, 0}}, nil
		}

		_, err := eng.BuildIndex(ctx, "kb", []core.Document{
			core.PlainText("a"),
			core.PlainText("b"),
		})
		// A width mismatch is a data defect, not a transport failure.
		assert.ErrorIs(t, err, index.ErrDimensionMismatch)
		assert.NotErrorIs(t, err, ErrUpstreamService)
	})

	t.Run("large collections batch across the pool", func(t *testing.T) {
		eng, embedder, _ := newTestEngine(t, WithBatchSize(3), WithPoolSize(2))

		docs := make([]core.Document, 10)
		for i := range docs {
			docs[i] = core.PlainText(fmt.Sprintf("document number %d about topic %d", i, i%3))
		}

		summary, err := eng.BuildIndex(ctx, "big", docs)
		require.NoError(t, err)
		assert.Equal(t, 10, summary.DocumentCount)
		// 10 docs at batch size 3 is 4 embedding calls.
		assert.Equal(t, 4, embedder.CallCount())
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("finds semantically related documents", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		results, err := eng.Search(ctx, "animals", "which mammal is the fastest on land")
		require.NoError(t, err)
		require.NotEmpty(t, results)

		assert.Contains(t, results[0].Text, "cheetah")
		assert.Equal(t, 1, results[0].Rank)
		assert.Equal(t, 0, results[0].OriginalIndex)
		assert.LessOrEqual(t, len(results), DefaultTopN)

		for i, r := range results {
			assert.Equal(t, i+1, r.Rank)
		}
	})

	t.Run("unknown knowledge base", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.Search(ctx, "missing", "anything")
		assert.ErrorIs(t, err, ErrKnowledgeBaseNotFound)
	})

	t.Run("k larger than corpus is capped", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		results, err := eng.Search(ctx, "animals", "mammal", WithK(100), WithTopN(100), WithRerankDisabled())
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})

	t.Run("non-positive k and topN fall back to defaults", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		results, err := eng.Search(ctx, "animals", "mammal", WithK(0), WithTopN(0))
		require.NoError(t, err)
		assert.Len(t, results, DefaultTopN)
	})

	t.Run("rerank disabled returns topN by vector similarity", func(t *testing.T) {
		eng, _, reranker := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		results, err := eng.Search(ctx, "animals", "the fastest land mammal", WithRerankDisabled())
		require.NoError(t, err)

		require.Len(t, results, DefaultTopN)
		assert.Equal(t, 0, reranker.CallCount())
		assert.Contains(t, results[0].Text, "cheetah")
		// Similarity scores are non-increasing.
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].RelevanceScore, results[i].RelevanceScore)
		}
	})

	t.Run("raw similarity ranks both mammal documents above the star", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		docs := []core.Document{
			core.PlainText("Cats are mammals."),
			core.PlainText("The sun is a star."),
			core.PlainText("Dogs are mammals."),
		}
		_, err := eng.BuildIndex(ctx, "facts", docs)
		require.NoError(t, err)

		results, err := eng.Search(ctx, "facts", "Which animals are mammals?", WithRerankDisabled())
		require.NoError(t, err)

		require.Len(t, results, 3)
		assert.Contains(t, results[0].Text, "mammals")
		assert.Contains(t, results[1].Text, "mammals")
		assert.Contains(t, results[2].Text, "star")
	})

	t.Run("query embed failure", func(t *testing.T) {
		eng, embedder, _ := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, fmt.Errorf("service down")
		}
		_, err = eng.Search(ctx, "animals", "mammal")
		assert.ErrorIs(t, err, ErrUpstreamService)
	})

	t.Run("rerank failure aborts the search", func(t *testing.T) {
		eng, _, reranker := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		reranker.RerankFunc = func(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error) {
			return nil, errors.New("rerank service down")
		}
		_, err = eng.Search(ctx, "animals", "mammal")
		assert.ErrorIs(t, err, ErrUpstreamService)
	})

	t.Run("rerank requested without a reranker", func(t *testing.T) {
		eng, err := NewEngine(mock.NewMockEmbedder(), nil)
		require.NoError(t, err)
		defer eng.Release()

		_, err = eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		_, err = eng.Search(ctx, "animals", "mammal")
		assert.ErrorIs(t, err, ErrRerankerRequired)

		// Disabling rerank still works without one.
		results, err := eng.Search(ctx, "animals", "mammal", WithRerankDisabled())
		require.NoError(t, err)
		assert.NotEmpty(t, results)
	})

	t.Run("out of range rerank index is rejected", func(t *testing.T) {
		eng, _, reranker := newTestEngine(t)

		_, err := eng.BuildIndex(ctx, "animals", animalDocs())
		require.NoError(t, err)

		reranker.RerankFunc = func(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error) {
			return []ai.RerankResult{{Index: 99, RelevanceScore: 1}}, nil
		}
		_, err = eng.Search(ctx, "animals", "mammal")
		assert.ErrorContains(t, err, "out of range")
	})
}

func TestSearchStructuredDocuments(t *testing.T) {
	ctx := context.Background()
	eng, _, _ := newTestEngine(t)

	docs := []core.Document{
		core.Structured(map[string]any{"text": "NQF level four learnership allowance is forty thousand rand"}),
		core.Structured(map[string]any{"content": "Stage four load shedding schedule for the municipality"}),
		core.PlainText("Employment tax incentive applies to workers aged eighteen to twenty nine"),
	}

	_, err := eng.BuildIndex(ctx, "mixed", docs)
	require.NoError(t, err)

	results, err := eng.Search(ctx, "mixed", "what is the learnership allowance for NQF level four", WithTopN(1))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "learnership")
	assert.Equal(t, 0, results[0].OriginalIndex)
}
