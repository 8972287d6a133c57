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


// Package openai provides an ai.Embedder backed by OpenAI-compatible
// embedding APIs via the langchaingo library.
//
// It works against the hosted OpenAI API as well as local services that
// speak the same protocol (Ollama, LocalAI, vLLM). Unlike the Cohere
// clients, these models are symmetric: queries and documents go through
// the same embedding path.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithBaseURL("http://localhost:11434/v1"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	)
//
//	embedder, err := openai.NewEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vectors, err := embedder.EmbedDocuments(ctx, texts)
package openai
