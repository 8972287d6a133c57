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


// Package ai provides abstractions for the remote model services the
// retrieval engine depends on.
//
// Two interfaces cover the engine's needs:
//
//   - Embedder: converts text into fixed-dimension vectors, with separate
//     document-side and query-side entry points for asymmetric embedding
//     models
//   - Reranker: scores (query, document) pairs with a cross-encoder for the
//     second retrieval phase
//
// Implementation packages:
//
//   - ai/cohere: production clients for the Cohere embed and rerank APIs
//   - ai/openai: embedder for OpenAI-compatible local services
//   - ai/mock: deterministic test doubles with no network dependency
//
// Production constructors return the interface types so callers stay
// decoupled from a concrete provider; mock constructors return concrete
// types so tests can inject behavior and assert on call counts.
package ai
