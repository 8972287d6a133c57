package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vaalai/sentinel/core"
	"github.com/vaalai/sentinel/index"
)

// BuildOption configures a single index build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	metric         index.Metric
	maxElements    int
	maxConnections int
	efConstruction int
	efSearch       int
}

// WithMetric selects the distance metric for the index. Default is inner
// product, matching normalized embedding models.
func WithMetric(metric index.Metric) BuildOption {
	return func(o *buildOptions) { o.metric = metric }
}

// WithMaxElements sets the index capacity.
func WithMaxElements(n int) BuildOption {
	return func(o *buildOptions) { o.maxElements = n }
}

// WithMaxConnections sets the HNSW graph degree (M).
func WithMaxConnections(m int) BuildOption {
	return func(o *buildOptions) { o.maxConnections = m }
}

// WithEfConstruction sets the build-time search breadth.
func WithEfConstruction(ef int) BuildOption {
	return func(o *buildOptions) { o.efConstruction = ef }
}

// WithEfSearch sets the query-time search breadth.
func WithEfSearch(ef int) BuildOption {
	return func(o *buildOptions) { o.efSearch = ef }
}

// BuildIndex embeds the documents, builds a vector index over them, and
// registers the result under name. A knowledge base already registered
// under that name is replaced atomically: concurrent searches see either
// the old state or the new, and any build failure leaves the old state
// untouched.
//
// The embedding dimension is taken from the service response, so callers
// never configure it.
func (e *Engine) BuildIndex(ctx context.Context, name string, docs []core.Document, opts ...BuildOption) (*core.BuildSummary, error) {
	if name == "" {
		return nil, fmt.Errorf("knowledge base name must not be empty")
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoDocuments, name)
	}

	options := buildOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	texts := core.ExtractTexts(docs)

	e.logger.Info("building knowledge base", "name", name, "documents", len(texts))

	vectors, err := e.embedAll(ctx, texts)
	if err != nil {
		if errors.Is(err, index.ErrDimensionMismatch) {
			return nil, fmt.Errorf("embed documents for %q: %w", name, err)
		}
		return nil, fmt.Errorf("%w: embed documents for %q: %v", ErrUpstreamService, name, err)
	}
	dimension := len(vectors[0])

	idx, err := index.New(index.Config{
		Dimension:      dimension,
		Metric:         options.metric,
		MaxElements:    options.maxElements,
		M:              options.maxConnections,
		EfConstruction: options.efConstruction,
		EfSearch:       options.efSearch,
	})
	if err != nil {
		return nil, fmt.Errorf("create index for %q: %w", name, err)
	}

	if err := idx.BulkInsert(vectors); err != nil {
		return nil, fmt.Errorf("index documents for %q: %w", name, err)
	}

	e.register(name, &knowledgeBase{index: idx, texts: texts})

	e.logger.Info("knowledge base ready",
		"name", name,
		"documents", len(texts),
		"dimension", dimension,
		"metric", idx.Metric().String())

	return &core.BuildSummary{
		Name:           name,
		DocumentCount:  len(texts),
		EmbeddingModel: e.embedder.Model(),
		Dimension:      dimension,
	}, nil
}

// embedAll embeds texts in batches spread across the worker pool. The
// returned vectors are in input order and all share one dimension.
func (e *Engine) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		wg.Add(1)
		task := func() {
			defer wg.Done()

			batch, err := e.embedder.EmbedDocuments(ctx, texts[start:end])
			if err != nil {
				fail(fmt.Errorf("batch at offset %d: %w", start, err))
				return
			}
			if len(batch) != end-start {
				fail(fmt.Errorf("batch at offset %d: expected %d vectors, got %d", start, end-start, len(batch)))
				return
			}
			copy(vectors[start:end], batch)
		}
		if err := e.pool.Submit(task); err != nil {
			wg.Done()
			fail(fmt.Errorf("submit batch at offset %d: %w", start, err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	// Embedding services occasionally return inconsistent widths; catch
	// that here rather than deep inside the index.
	dimension := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				index.ErrDimensionMismatch, i, len(v), dimension)
		}
	}
	return vectors, nil
}
