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


// Package crisis provides the load-shedding crisis detector: semantic
// search over Eskom grid intelligence plus rule-based risk assessment.
//
// Grid data is loaded from JSON under a data directory, flattened into
// status, indicator, and sector-impact documents, and indexed as the
// "crisis" knowledge base. AssessRisk applies the published grid
// thresholds (energy availability factor, unplanned outages, coal
// stockpile) to current metrics without any remote calls, and
// BusinessImpact reports the expected effect of a load-shedding stage on a
// business sector.
package crisis
