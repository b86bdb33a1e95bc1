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

import "github.com/kraklabs/shannon-insight/pkg/store"

func dependsOnTargets(fs *store.FactStore) []target {
	rels := fs.ByType(store.RelDependsOn)
	out := make([]target, 0, len(rels))
	for _, r := range rels {
		out = append(out, target{A: r.From, B: r.To})
	}
	return out
}

// structuralCoupling normalizes a DEPENDS_ON edge's raw crossing-import
// count by the two modules' sizes, so a handful of files coupling two
// huge modules doesn't read the same as two small modules fully wired
// together.
func structuralCoupling(fs *store.FactStore, a, b store.EntityID, weight float64) float64 {
	sizeA := len(fs.Children(a))
	sizeB := len(fs.Children(b))
	max := float64(sizeA * sizeB)
	if max <= 0 {
		return 0
	}
	c := weight / max
	if c > 1 {
		c = 1
	}
	return c
}

// modulePairPatterns returns the two MODULE_PAIR-scope finders (§4.7).
func modulePairPatterns() []Pattern {
	return []Pattern{
		conwayViolation(),
		boundaryMismatch(),
	}
}

// conwayViolation: author-set weighted-Jaccard distance > 0.8 AND
// structural coupling > 0.3 — two modules built by disjoint teams but
// wired together structurally, the opposite of Conway's law.
func conwayViolation() Pattern {
	return Pattern{
		Name:         "CONWAY_VIOLATION",
		Scope:        ScopeModulePair,
		Category:     CategoryOwnership,
		BaseSeverity: 0.55,
		Effort:       EffortHigh,
		Remediation:  "These modules are structurally coupled but maintained by different people; align ownership or reduce the coupling.",
		Candidates:   dependsOnTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			coupling := structuralCoupling(ctx.fs, t.A, t.B, ctx.fs.Weight(store.RelDependsOn, t.A, t.B))
			couplingCond := marginHighIsBad(coupling, 0.3)
			if !couplingCond.satisfied() {
				return nil, nil, false
			}
			wa := moduleAuthorWeights(ctx.fs, t.A)
			wb := moduleAuthorWeights(ctx.fs, t.B)
			if len(wa) == 0 || len(wb) == 0 {
				return nil, nil, false
			}
			distance := 1 - weightedJaccardSimilarity(wa, wb)
			distanceCond := marginHighIsBad(distance, 0.8)
			if !distanceCond.satisfied() {
				return nil, nil, false
			}
			return []condition{distanceCond, couplingCond}, []Evidence{
				evidence(IRSourceIR5t, "author_jaccard_distance", distance, nil, t.A, "author-set weighted Jaccard distance"),
				evidence(IRSourceIR4, "structural_coupling", coupling, nil, t.A, "normalized cross-module import density"),
			}, true
		},
	}
}

// boundaryMismatch: a structural dependency between two modules whose
// internal role composition doesn't support a clean boundary between
// them (both sides show weak boundary alignment).
func boundaryMismatch() Pattern {
	return Pattern{
		Name:         "BOUNDARY_MISMATCH",
		Scope:        ScopeModulePair,
		Category:     CategoryArchitecture,
		BaseSeverity: 0.45,
		Effort:       EffortMedium,
		Remediation:  "Neither module has a well-aligned role boundary; reconsider how responsibilities are split between them.",
		Candidates:   dependsOnTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			alignA, okA := floatSignal(ctx.fs, t.A, "boundary_alignment")
			alignB, okB := floatSignal(ctx.fs, t.B, "boundary_alignment")
			if !okA || !okB {
				return nil, nil, false
			}
			condA := marginHighIsGood(alignA, 0.3)
			condB := marginHighIsGood(alignB, 0.3)
			if !(condA.satisfied() && condB.satisfied()) {
				return nil, nil, false
			}
			return []condition{condA, condB}, []Evidence{
				evidence(IRSourceIR4, "boundary_alignment", alignA, nil, t.A, "role-boundary alignment"),
				evidence(IRSourceIR4, "boundary_alignment", alignB, nil, t.B, "role-boundary alignment"),
			}, true
		},
	}
}

// moduleAuthorWeights aggregates AUTHORED_BY commit counts across every
// file in a module, giving each author's share of the module's history.
func moduleAuthorWeights(fs *store.FactStore, module store.EntityID) map[store.EntityID]float64 {
	weights := make(map[store.EntityID]float64)
	for _, f := range fs.Children(module) {
		for _, r := range fs.Outgoing(f, store.RelAuthoredBy) {
			weights[r.To] += r.Weight
		}
	}
	return weights
}

// weightedJaccardSimilarity is sum(min(a_i,b_i)) / sum(max(a_i,b_i)) over
// the union of keys present in either vector.
func weightedJaccardSimilarity(a, b map[store.EntityID]float64) float64 {
	var minSum, maxSum float64
	seen := make(map[store.EntityID]bool, len(a)+len(b))
	for k, av := range a {
		bv := b[k]
		minSum += minFloat(av, bv)
		maxSum += maxFloat(av, bv)
		seen[k] = true
	}
	for k, bv := range b {
		if seen[k] {
			continue
		}
		minSum += minFloat(0, bv)
		maxSum += maxFloat(0, bv)
	}
	if maxSum == 0 {
		return 0
	}
	return minSum / maxSum
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
