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

package ir6

import (
	"github.com/kraklabs/shannon-insight/pkg/ir5s"
	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// evalContext bundles the cross-cutting, once-per-run inputs every
// pattern's predicate needs: percentile ranks (ABSOLUTE tier has none),
// the health Laplacian, and the hotspot filter's median. Building these
// once here instead of inside each predicate keeps pattern evaluation
// at O(targets), not O(targets*files).
type evalContext struct {
	fs   *store.FactStore
	tier kernel.Tier

	pagerankPctl        map[store.EntityID]float64
	blastRadiusPctl     map[store.EntityID]float64
	cognitiveLoadPctl   map[store.EntityID]float64
	semanticCoherencePctl map[store.EntityID]float64

	laplacian map[store.EntityID]float64

	medianChanges   float64
	medianChangesOK bool

	// architectureHistory holds prior snapshots' codebase-level
	// violation rates (oldest first, excluding the current run), wired
	// in by the caller for ARCHITECTURE_EROSION. Nil on a first run.
	architectureHistory []float64
}

func newEvalContext(fs *store.FactStore, tier kernel.Tier, archHistory []float64) *evalContext {
	ctx := &evalContext{
		fs:                  fs,
		tier:                tier,
		pagerankPctl:        ir5s.Percentile(fs, store.KindFile, "pagerank", tier),
		blastRadiusPctl:     ir5s.Percentile(fs, store.KindFile, "blast_radius_size", tier),
		cognitiveLoadPctl:   ir5s.Percentile(fs, store.KindFile, "cognitive_load", tier),
		semanticCoherencePctl: ir5s.Percentile(fs, store.KindFile, "semantic_coherence", tier),
		laplacian:           ir5s.HealthLaplacian(fs),
		architectureHistory: archHistory,
	}
	ctx.medianChanges, ctx.medianChangesOK = medianTotalChanges(fs)
	return ctx
}

func (c *evalContext) pctl(m map[store.EntityID]float64, id store.EntityID) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[id]
	return v, ok
}
