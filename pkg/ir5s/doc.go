// Copyright 2025 KrakLabs
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
//
// SPDX-License-Identifier: Apache-2.0

// Package ir5s fuses the signals the structural (IR1-IR4) and temporal
// (IR5t) chains produced into percentile ranks and the composite scores
// declared in the registry: per-file risk_score/wiring_quality/
// health_score and per-codebase wiring_score/architecture_health/
// codebase_health.
//
// It also exports the percentile-rank engine and the health Laplacian
// computation as standalone functions, since IR6 finder predicates
// reference raw percentiles (e.g. "pctl(pagerank) ≥ 0.90") and Δh
// directly rather than through a persisted signal — neither is in the
// registry, so neither can be written with SetSignal.
package ir5s
