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


// Package engine provides the semantic search engine: named knowledge
// bases built from document collections, queried with two-phase
// retrieval.
//
// Each knowledge base pairs an HNSW vector index with the original
// document texts. Building embeds every document (batched across a worker
// pool) and indexes the vectors; searching embeds the query, retrieves the
// k nearest candidates, and by default reranks them with a cross-encoder
// before returning the top results.
//
// # Usage
//
//	eng, err := engine.NewEngine(embedder, reranker)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Release()
//
//	summary, err := eng.BuildIndex(ctx, "sars", docs)
//	results, err := eng.Search(ctx, "sars", "how much is the NQF 4 allowance?")
//
// Knowledge bases survive restarts through SaveIndex and LoadIndex, which
// persist a file pair: "{path}.hnsw" for the index and "{path}.texts.json"
// for the document texts.
package engine
