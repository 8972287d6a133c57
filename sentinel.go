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


// Package sentinel wires the semantic search engine and its domain
// adapters into one entry point: the SARS tax-regulation knowledge base
// and the load-shedding crisis detector, sharing one engine and one pair
// of AI service clients.
package sentinel

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/vaalai/sentinel/ai"
	"github.com/vaalai/sentinel/ai/cohere"
	"github.com/vaalai/sentinel/crisis"
	"github.com/vaalai/sentinel/engine"
	"github.com/vaalai/sentinel/sars"
)

// Sentinel owns the search engine and the domain adapters built on it.
type Sentinel struct {
	engine   *engine.Engine
	sarsKB   *sars.KnowledgeBase
	detector *crisis.Detector
	logger   *slog.Logger
}

// Option configures a Sentinel.
type Option func(*options)

type options struct {
	aiConfig   *ai.Config
	embedder   ai.Embedder
	reranker   ai.Reranker
	engineOpts []engine.Option
}

// WithAIConfig sets the configuration for the Cohere clients. Ignored when
// explicit services are injected.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) { o.aiConfig = cfg }
}

// WithServices injects embedding and rerank services directly, bypassing
// the Cohere clients. Used by tests and by alternative providers.
func WithServices(embedder ai.Embedder, reranker ai.Reranker) Option {
	return func(o *options) {
		o.embedder = embedder
		o.reranker = reranker
	}
}

// WithEngineOptions forwards options to the underlying search engine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) { o.engineOpts = append(o.engineOpts, opts...) }
}

// New creates a Sentinel reading domain data from dataDir: SARS regulation
// files under dataDir/sars and grid data under dataDir/crisis. Without
// injected services it builds Cohere clients from the AI configuration.
func New(dataDir string, opts ...Option) (*Sentinel, error) {
	o := &options{aiConfig: ai.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}

	embedder := o.embedder
	reranker := o.reranker
	if embedder == nil {
		var err error
		embedder, err = cohere.NewEmbedder(o.aiConfig)
		if err != nil {
			return nil, fmt.Errorf("create embedder: %w", err)
		}
	}
	if reranker == nil {
		var err error
		reranker, err = cohere.NewReranker(o.aiConfig)
		if err != nil {
			return nil, fmt.Errorf("create reranker: %w", err)
		}
	}

	eng, err := engine.NewEngine(embedder, reranker, o.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	return &Sentinel{
		engine:   eng,
		sarsKB:   sars.NewKnowledgeBase(eng, filepath.Join(dataDir, "sars")),
		detector: crisis.NewDetector(eng, filepath.Join(dataDir, "crisis")),
		logger:   slog.Default(),
	}, nil
}

// Initialize loads and indexes both domain knowledge bases.
func (s *Sentinel) Initialize(ctx context.Context) error {
	if err := s.sarsKB.Initialize(ctx); err != nil {
		return err
	}
	if err := s.detector.Initialize(ctx); err != nil {
		return err
	}
	return nil
}

// Engine returns the underlying search engine for direct knowledge-base
// management.
func (s *Sentinel) Engine() *engine.Engine {
	return s.engine
}

// SARS returns the tax-regulation knowledge base.
func (s *Sentinel) SARS() *sars.KnowledgeBase {
	return s.sarsKB
}

// Crisis returns the load-shedding crisis detector.
func (s *Sentinel) Crisis() *crisis.Detector {
	return s.detector
}

// Close releases the engine's resources.
func (s *Sentinel) Close() error {
	s.engine.Release()
	return nil
}
