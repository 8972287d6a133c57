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


package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/vaalai/sentinel/ai"
	"github.com/vaalai/sentinel/index"
)

const (
	// DefaultPoolSize is the number of workers embedding document batches
	// concurrently during builds.
	DefaultPoolSize = 4

	// DefaultBatchSize is how many documents go into one embedding call.
	DefaultBatchSize = 96
)

// knowledgeBase pairs an immutable vector index with the texts it was
// built from. Vector IDs are positions in texts. Instances are replaced
// wholesale on rebuild, never mutated.
type knowledgeBase struct {
	index *index.Index
	texts []string
}

// Engine manages named knowledge bases and runs two-phase semantic search
// over them. Safe for concurrent use: builds replace a knowledge base
// atomically while searches read a consistent snapshot.
type Engine struct {
	mu    sync.RWMutex
	bases map[string]*knowledgeBase

	embedder  ai.Embedder
	reranker  ai.Reranker
	pool      *ants.Pool
	poolSize  int
	batchSize int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger used by the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		e.logger = logger
		return nil
	}
}

// WithPoolSize sets how many workers embed document batches concurrently.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", size)
		}
		e.poolSize = size
		return nil
	}
}

// WithBatchSize sets how many documents go into one embedding call.
func WithBatchSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			return fmt.Errorf("batch size must be at least 1, got %d", size)
		}
		e.batchSize = size
		return nil
	}
}

// NewEngine creates a search engine backed by the given embedder. The
// reranker may be nil, in which case every search must disable reranking.
func NewEngine(embedder ai.Embedder, reranker ai.Reranker, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		bases:     make(map[string]*knowledgeBase),
		embedder:  embedder,
		reranker:  reranker,
		poolSize:  DefaultPoolSize,
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "engine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(e.poolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	e.pool = pool

	return e, nil
}

// Release frees the worker pool. The engine must not be used afterwards.
func (e *Engine) Release() {
	e.pool.Release()
}

// KnowledgeBases returns the names of all registered knowledge bases,
// sorted.
func (e *Engine) KnowledgeBases() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.bases))
	for name := range e.bases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DocumentCount returns how many documents the named knowledge base holds.
func (e *Engine) DocumentCount(name string) (int, error) {
	kb, err := e.snapshot(name)
	if err != nil {
		return 0, err
	}
	return len(kb.texts), nil
}

// snapshot returns the current knowledge base under the given name. The
// returned value is immutable and safe to use without holding the lock.
func (e *Engine) snapshot(name string) (*knowledgeBase, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	kb, ok := e.bases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKnowledgeBaseNotFound, name)
	}
	return kb, nil
}

// register installs a knowledge base, replacing any previous one with the
// same name.
func (e *Engine) register(name string, kb *knowledgeBase) {
	e.mu.Lock()
	e.bases[name] = kb
	e.mu.Unlock()
}
