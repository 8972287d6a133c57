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


// Package core defines the domain model shared across the retrieval engine
// and its consumers.
//
// The central types are:
//
//   - Document: the unit of indexable content, either plain text or a
//     structured record with a documented text-extraction chain
//   - SearchResult: one ranked hit from a knowledge-base query
//   - BuildSummary: the outcome of building a knowledge base
//   - Confidence: relevance-score tiers used by domain consumers
//
// Types here carry no behavior beyond extraction, filtering, and tiering;
// orchestration lives in the engine package.
package core
