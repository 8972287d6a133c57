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


// Package sars provides the SARS tax-regulation knowledge base: semantic
// search over Section 12H learnership and Employment Tax Incentive (ETI)
// regulation data, plus calculators that apply the published rates.
//
// Regulation data is loaded from JSON files under a data directory,
// flattened into regulation-prefixed text documents, and indexed as the
// "sars" knowledge base. Queries post-filter by a relevance threshold and
// annotate each hit with a confidence tier. The calculators never call
// remote services; they compute directly from the loaded rate tables.
package sars
