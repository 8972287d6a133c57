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


// Package index implements an approximate nearest-neighbor vector index
// based on the Hierarchical Navigable Small World (HNSW) algorithm.
//
// The index is built once from an ordered batch of vectors: position i in
// the input becomes internal id i, so callers can keep a parallel sequence
// of source documents aligned with the index. There is no incremental
// upsert; replacing content means building a new index.
//
// Three distance metrics are supported: inner product, cosine, and L2.
// For cosine the stored vectors are normalized at insert time, which makes
// the search path identical to inner product over unit vectors.
//
// Construction parameters trade recall for build time and memory:
// EfConstruction (neighbor-list breadth while building) and M (maximum
// connections per node, doubled at the base layer). Level assignment uses a
// seeded PRNG, so two builds with the same configuration and input produce
// the same graph.
//
// Reference: "Efficient and robust approximate nearest neighbor search using
// Hierarchical Navigable Small World graphs" (Malkov & Yashunin, 2016).
package index
