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
	"github.com/kraklabs/shannon-insight/pkg/ir2"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

func cochangeTargets(fs *store.FactStore) []target {
	rels := fs.ByType(store.RelCochangesWith)
	out := make([]target, 0, len(rels))
	for _, r := range rels {
		out = append(out, target{A: r.From, B: r.To})
	}
	return out
}

func importTargets(fs *store.FactStore) []target {
	rels := fs.ByType(store.RelImports)
	out := make([]target, 0, len(rels))
	for _, r := range rels {
		out = append(out, target{A: r.From, B: r.To})
	}
	return out
}

func cloneTargets(fs *store.FactStore) []target {
	rels := fs.ByType(store.RelClonedFrom)
	out := make([]target, 0, len(rels))
	for _, r := range rels {
		out = append(out, target{A: r.From, B: r.To})
	}
	return out
}

// cochangeBetween finds the COCHANGES_WITH relation touching both a and b,
// regardless of which side the store canonicalized as From.
func cochangeBetween(fs *store.FactStore, a, b store.EntityID) (store.Relation, bool) {
	for _, r := range fs.Outgoing(a, store.RelCochangesWith) {
		if r.From == b || r.To == b {
			return r, true
		}
	}
	return store.Relation{}, false
}

// filePairPatterns returns the four FILE_PAIR-scope finders (§4.7).
func filePairPatterns() []Pattern {
	return []Pattern{
		hiddenCoupling(),
		deadDependency(),
		copyPasteClone(),
		accidentalCoupling(),
	}
}

// hiddenCoupling: `lift >= 2.0 AND max(conf_a_b, conf_b_a) >= 0.5 AND
// cochange_count >= 3 AND not imports(A,B) AND not imports(B,A)`.
func hiddenCoupling() Pattern {
	return Pattern{
		Name:         "HIDDEN_COUPLING",
		Scope:        ScopeFilePair,
		Category:     CategoryCoupling,
		BaseSeverity: 0.75,
		Effort:       EffortMedium,
		Remediation:  "These files change together without an explicit dependency; make the relationship explicit or extract the shared concern.",
		Candidates:   cochangeTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			r, ok := cochangeBetween(ctx.fs, t.A, t.B)
			if !ok {
				return nil, nil, false
			}
			meta, _ := r.Cochange()
			liftCond := marginHighIsBad(r.Weight, 2.0)
			confCond := marginHighIsBad(meta.Confidence, 0.5)
			countCond := boolCondition(meta.Count >= 3)
			noImports := boolCondition(!ctx.fs.Has(store.RelImports, t.A, t.B) && !ctx.fs.Has(store.RelImports, t.B, t.A))
			conds := []condition{liftCond, confCond, countCond, noImports}
			for _, c := range conds {
				if !c.satisfied() {
					return nil, nil, false
				}
			}
			return conds, []Evidence{
				evidence(IRSourceIR5t, "cochange_lift", r.Weight, nil, t.A, "association-rule lift"),
				evidence(IRSourceIR5t, "cochange_confidence", meta.Confidence, nil, t.A, "max directional confidence"),
				evidence(IRSourceIR5t, "cochange_count", float64(meta.Count), nil, t.A, "co-change count"),
			}, true
		},
	}
}

// deadDependency: `imports(A,B) AND cochange_count=0 AND
// total_changes(A)>=50 AND total_changes(B)>=50`.
func deadDependency() Pattern {
	return Pattern{
		Name:         "DEAD_DEPENDENCY",
		Scope:        ScopeFilePair,
		Category:     CategoryCoupling,
		BaseSeverity: 0.45,
		Effort:       EffortLow,
		Remediation:  "This import has never needed a coordinated change on either side; confirm it's still load-bearing.",
		Candidates:   importTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			count := 0
			if r, ok := cochangeBetween(ctx.fs, t.A, t.B); ok {
				meta, _ := r.Cochange()
				count = meta.Count
			}
			tcA, okA := floatSignal(ctx.fs, t.A, "total_changes")
			tcB, okB := floatSignal(ctx.fs, t.B, "total_changes")
			if !okA || !okB {
				return nil, nil, false
			}
			noCochange := boolCondition(count == 0)
			changesA := boolCondition(tcA >= 50)
			changesB := boolCondition(tcB >= 50)
			conds := []condition{noCochange, changesA, changesB}
			for _, c := range conds {
				if !c.satisfied() {
					return nil, nil, false
				}
			}
			return conds, []Evidence{
				evidence(IRSourceIR5t, "cochange_count", 0, nil, t.A, "co-change count"),
				evidence(IRSourceIR5t, "total_changes", tcA, nil, t.A, "total changes"),
				evidence(IRSourceIR5t, "total_changes", tcB, nil, t.B, "total changes"),
			}, true
		},
	}
}

// copyPasteClone: IR3 already restricts CLONED_FROM edges to NCD < 0.3, so
// a candidate matching here has already passed the threshold.
func copyPasteClone() Pattern {
	return Pattern{
		Name:         "COPY_PASTE_CLONE",
		Scope:        ScopeFilePair,
		Category:     CategoryQuality,
		BaseSeverity: 0.5,
		Effort:       EffortMedium,
		Remediation:  "Extract the shared logic between these near-duplicate files instead of maintaining two copies.",
		Candidates:   cloneTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			ncd := 1 - ctx.fs.Weight(store.RelClonedFrom, t.A, t.B)
			cond := marginHighIsGood(ncd, 0.3)
			return []condition{cond}, []Evidence{
				evidence(IRSourceIR3, "clone_ncd", ncd, nil, t.A, "normalized compression distance"),
			}, true
		},
	}
}

// accidentalCoupling: `imports(A,B) AND concept-set Jaccard < 0.2` — an
// import with no shared vocabulary between the two files' topics.
func accidentalCoupling() Pattern {
	return Pattern{
		Name:         "ACCIDENTAL_COUPLING",
		Scope:        ScopeFilePair,
		Category:     CategoryCoupling,
		BaseSeverity: 0.4,
		Effort:       EffortLow,
		Remediation:  "This import crosses two files with almost no shared vocabulary; confirm it belongs, or isolate it behind a narrower interface.",
		Candidates:   importTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			ea, okA := ctx.fs.Entity(t.A)
			eb, okB := ctx.fs.Entity(t.B)
			if !okA || !okB {
				return nil, nil, false
			}
			ta := conceptTopics(ea)
			tb := conceptTopics(eb)
			if len(ta) == 0 || len(tb) == 0 {
				return nil, nil, false
			}
			jaccard := jaccardIndex(ta, tb)
			cond := marginHighIsGood(jaccard, 0.2)
			if !cond.satisfied() {
				return nil, nil, false
			}
			return []condition{cond}, []Evidence{
				evidence(IRSourceIR2, "concept_jaccard", jaccard, nil, t.A, "shared-vocabulary overlap"),
			}, true
		},
	}
}

func conceptTopics(e *store.Entity) map[string]bool {
	concepts, ok := e.Metadata["concepts"].([]ir2.Concept)
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		out[c.Topic] = true
	}
	return out
}

func jaccardIndex(a, b map[string]bool) float64 {
	union := make(map[string]bool, len(a)+len(b))
	for k := range a {
		union[k] = true
	}
	for k := range b {
		union[k] = true
	}
	if len(union) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	return float64(inter) / float64(len(union))
}
