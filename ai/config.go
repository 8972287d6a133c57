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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service clients.
type Config struct {
	// APIKey authenticates against the remote service. Required by the
	// Cohere clients; OpenAI-compatible local services may not need one.
	APIKey string

	// BaseURL is the service endpoint.
	// Example: "https://api.cohere.ai" or "http://localhost:11434/v1".
	BaseURL string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "embed-english-v3.0", "text-embedding-3-small"
	EmbeddingModel string

	// RerankModel is the model identifier used for cross-encoder reranking.
	// Example: "rerank-english-v2.0"
	RerankModel string

	// Timeout bounds every remote call. Default: 30s.
	Timeout time.Duration

	// MaxRetries is the number of attempts for retryable transport
	// failures. Default: 3.
	MaxRetries int

	// BatchSize caps how many texts go into one embedding request.
	// Default: 96.
	BatchSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets the service endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithRerankModel sets the rerank model identifier.
func WithRerankModel(model string) ConfigOption {
	return func(c *Config) {
		c.RerankModel = model
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxRetries sets the retry budget for transport failures.
func WithMaxRetries(retries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithBatchSize sets the embedding request batch cap.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// DefaultConfig returns a Config with defaults for the hosted Cohere API.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.cohere.ai",
		EmbeddingModel: "embed-english-v3.0",
		RerankModel:    "rerank-english-v2.0",
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		BatchSize:      96,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("COHERE_API_KEY")),
//	    ai.WithRerankModel("rerank-english-v3.0"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form, trimming a
// trailing slash from the base URL so path joining stays predictable.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Validate checks that the configuration is complete enough for any client.
// It normalizes the configuration first. Provider constructors add their own
// stricter checks, such as the Cohere clients requiring an API key.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return errors.New("ai config: MaxRetries must be at least 1")
	}
	if c.BatchSize < 1 {
		return errors.New("ai config: BatchSize must be at least 1")
	}
	return nil
}
