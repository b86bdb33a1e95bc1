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

func fileTargets(fs *store.FactStore) []target {
	files := fs.EntitiesByKind(store.KindFile)
	out := make([]target, 0, len(files))
	for _, f := range files {
		out = append(out, target{A: f.ID})
	}
	return out
}

// fileScopePatterns returns the ten FILE-scope finders (§4.7).
func fileScopePatterns() []Pattern {
	return []Pattern{
		highRiskHub(),
		godFile(),
		hollowCode(),
		phantomImports(),
		orphanCode(),
		namingDrift(),
		weakLink(),
		knowledgeSilo(),
		reviewBlindspot(),
		bugAttractor(),
	}
}

// highRiskHub: `(pctl(pagerank) >= 0.90 OR pctl(blast_radius_size) >= 0.90)
// AND (pctl(cognitive_load) >= 0.90 OR trajectory in {CHURNING, SPIKING})`.
func highRiskHub() Pattern {
	return Pattern{
		Name:         "HIGH_RISK_HUB",
		Scope:        ScopeFile,
		Category:     CategoryRisk,
		BaseSeverity: 0.9,
		Effort:       EffortHigh,
		Remediation:  "Split this file's responsibilities and add tests before its next change; its blast radius and churn make regressions expensive.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			pr, prOK := ctx.pctl(ctx.pagerankPctl, t.A)
			br, brOK := ctx.pctl(ctx.blastRadiusPctl, t.A)
			cl, clOK := ctx.pctl(ctx.cognitiveLoadPctl, t.A)
			traj, trajOK := floatSignal(ctx.fs, t.A, "trajectory")

			if !prOK && !brOK {
				return nil, nil, false
			}
			centrality := maxMargin(marginHighIsBad(pr, 0.90), marginHighIsBad(br, 0.90))
			if !centrality.satisfied() {
				return nil, nil, false
			}

			churning := trajOK && isChurningOrSpiking(traj)
			volatility := maxMargin(marginHighIsBad(cl, 0.90), boolCondition(churning))
			if !volatility.satisfied() {
				return nil, nil, false
			}

			conds := []condition{centrality, volatility}
			var ev []Evidence
			if prOK {
				ev = append(ev, evidence(IRSourceIR3, "pagerank", pr, nil, t.A, "centrality percentile"))
			}
			if brOK {
				ev = append(ev, evidence(IRSourceIR3, "blast_radius_size", br, nil, t.A, "blast radius percentile"))
			}
			if clOK {
				ev = append(ev, evidence(IRSourceIR2, "cognitive_load", cl, nil, t.A, "cognitive load percentile"))
			}
			if trajOK {
				ev = append(ev, evidence(IRSourceIR5t, "trajectory", traj, nil, t.A, "churn trajectory"))
			}
			return conds, ev, true
		},
	}
}

// godFile: `pctl(cognitive_load) >= 0.95 AND pctl(semantic_coherence) < 0.20
// AND function_count >= 3 AND total_changes > 0`.
func godFile() Pattern {
	return Pattern{
		Name:         "GOD_FILE",
		Scope:        ScopeFile,
		Category:     CategoryQuality,
		BaseSeverity: 0.85,
		Effort:       EffortHigh,
		Remediation:  "Decompose this file into smaller, topically coherent units.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			cl, clOK := ctx.pctl(ctx.cognitiveLoadPctl, t.A)
			sc, scOK := ctx.pctl(ctx.semanticCoherencePctl, t.A)
			fc, fcOK := floatSignal(ctx.fs, t.A, "function_count")
			tc, tcOK := floatSignal(ctx.fs, t.A, "total_changes")
			if !clOK || !scOK || !fcOK {
				return nil, nil, false
			}

			loadCond := marginHighIsBad(cl, 0.95)
			coherenceCond := marginHighIsGood(sc, 0.20)
			countCond := boolCondition(fc >= 3)
			changesCond := boolCondition(tcOK && tc > 0)
			if !(loadCond.satisfied() && coherenceCond.satisfied() && countCond.satisfied() && changesCond.satisfied()) {
				return nil, nil, false
			}

			conds := []condition{loadCond, coherenceCond, countCond, changesCond}
			ev := []Evidence{
				evidence(IRSourceIR2, "cognitive_load", cl, nil, t.A, "cognitive load percentile"),
				evidence(IRSourceIR2, "semantic_coherence", sc, nil, t.A, "semantic coherence percentile"),
				evidence(IRSourceIR1, "function_count", fc, nil, t.A, "function count"),
			}
			if tcOK {
				ev = append(ev, evidence(IRSourceIR5t, "total_changes", tc, nil, t.A, "total changes"))
			}
			return conds, ev, true
		},
	}
}

// hollowCode: implementations that are mostly stubs (stub_ratio high) in a
// file with enough functions to be more than an interface stub.
func hollowCode() Pattern {
	return Pattern{
		Name:         "HOLLOW_CODE",
		Scope:        ScopeFile,
		Category:     CategoryDeadCode,
		BaseSeverity: 0.6,
		Effort:       EffortMedium,
		Remediation:  "Implement or remove the stub functions this file declares.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			stub, stubOK := floatSignal(ctx.fs, t.A, "stub_ratio")
			fc, fcOK := floatSignal(ctx.fs, t.A, "function_count")
			if !stubOK || !fcOK {
				return nil, nil, false
			}
			stubCond := marginHighIsBad(stub, 0.5)
			countCond := boolCondition(fc >= 3)
			if !(stubCond.satisfied() && countCond.satisfied()) {
				return nil, nil, false
			}
			conds := []condition{stubCond, countCond}
			ev := []Evidence{
				evidence(IRSourceIR1, "stub_ratio", stub, nil, t.A, "fraction of stub functions"),
				evidence(IRSourceIR1, "function_count", fc, nil, t.A, "function count"),
			}
			if gini, ok := floatSignal(ctx.fs, t.A, "impl_gini"); ok {
				ev = append(ev, evidence(IRSourceIR2, "impl_gini", gini, nil, t.A, "implementation-size inequality"))
			}
			return conds, ev, true
		},
	}
}

// phantomImports: imports that resolve to nothing in the codebase.
func phantomImports() Pattern {
	return Pattern{
		Name:         "PHANTOM_IMPORTS",
		Scope:        ScopeFile,
		Category:     CategoryDeadCode,
		BaseSeverity: 0.5,
		Effort:       EffortLow,
		Remediation:  "Remove or fix imports that no longer resolve to a module in this codebase.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			count, ok := floatSignal(ctx.fs, t.A, "phantom_import_count")
			if !ok || count < 1 {
				return nil, nil, false
			}
			cond := boolCondition(true)
			return []condition{cond}, []Evidence{
				evidence(IRSourceIR3, "phantom_import_count", count, nil, t.A, "unresolved import count"),
			}, true
		},
	}
}

// orphanCode: files IR3 already classified as unreferenced and not an
// entry point or test (is_orphan bakes that role exclusion in).
func orphanCode() Pattern {
	return Pattern{
		Name:         "ORPHAN_CODE",
		Scope:        ScopeFile,
		Category:     CategoryDeadCode,
		BaseSeverity: 0.55,
		Effort:       EffortLow,
		Remediation:  "Confirm this file is still needed; wire it in or delete it.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			orphan, ok := boolSignal(ctx.fs, t.A, "is_orphan")
			if !ok || !orphan {
				return nil, nil, false
			}
			inDeg, _ := floatSignal(ctx.fs, t.A, "in_degree")
			return []condition{boolCondition(true)}, []Evidence{
				evidence(IRSourceIR3, "is_orphan", 1, nil, t.A, "unreferenced by any other file"),
				evidence(IRSourceIR3, "in_degree", inDeg, nil, t.A, "incoming reference count"),
			}, true
		},
	}
}

// namingDrift: the file's identifier vocabulary has drifted from its
// module's (§4.7 names the threshold as 0.7).
func namingDrift() Pattern {
	return Pattern{
		Name:         "NAMING_DRIFT",
		Scope:        ScopeFile,
		Category:     CategoryQuality,
		BaseSeverity: 0.4,
		Effort:       EffortLow,
		Remediation:  "Align this file's naming with the conventions of the rest of its module.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			drift, ok := floatSignal(ctx.fs, t.A, "naming_drift")
			if !ok {
				return nil, nil, false
			}
			cond := marginHighIsBad(drift, 0.7)
			if !cond.satisfied() {
				return nil, nil, false
			}
			return []condition{cond}, []Evidence{
				evidence(IRSourceIR2, "naming_drift", drift, nil, t.A, "vocabulary divergence from module"),
			}, true
		},
	}
}

// weakLink: `Δh(f) > 0.4 AND total_changes > median(total_changes)`.
func weakLink() Pattern {
	return Pattern{
		Name:         "WEAK_LINK",
		Scope:        ScopeFile,
		Category:     CategoryRisk,
		BaseSeverity: 0.65,
		Effort:       EffortMedium,
		Remediation:  "This file is riskier than its neighbors and changes often; bring it in line with its neighborhood before its next change.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			dh, ok := ctx.laplacian[t.A]
			if !ok {
				return nil, nil, false
			}
			tc, tcOK := floatSignal(ctx.fs, t.A, "total_changes")
			if !tcOK || !ctx.medianChangesOK {
				return nil, nil, false
			}
			dhCond := marginHighIsBad(dh, 0.4)
			changesCond := boolCondition(tc > ctx.medianChanges)
			if !(dhCond.satisfied() && changesCond.satisfied()) {
				return nil, nil, false
			}
			return []condition{dhCond, changesCond}, []Evidence{
				evidence(IRSourceIR5s, "health_laplacian", dh, nil, t.A, "risk delta against neighborhood"),
				evidence(IRSourceIR5t, "total_changes", tc, nil, t.A, "total changes"),
			}, true
		},
	}
}

// knowledgeSilo: a hotspot file with effectively a single author.
func knowledgeSilo() Pattern {
	return Pattern{
		Name:         "KNOWLEDGE_SILO",
		Scope:        ScopeFile,
		Category:     CategoryOwnership,
		BaseSeverity: 0.6,
		Hotspot:      true,
		Effort:       EffortMedium,
		Remediation:  "Pair or rotate ownership on this file; only one person can safely change it today.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			bus, ok := floatSignal(ctx.fs, t.A, "bus_factor")
			if !ok {
				return nil, nil, false
			}
			cond := boolCondition(bus <= 1)
			if !cond.satisfied() {
				return nil, nil, false
			}
			tc, _ := floatSignal(ctx.fs, t.A, "total_changes")
			return []condition{cond}, []Evidence{
				evidence(IRSourceIR5t, "bus_factor", bus, nil, t.A, "effective author count (2^H of commit shares)"),
				evidence(IRSourceIR5t, "total_changes", tc, nil, t.A, "total changes"),
			}, true
		},
	}
}

// reviewBlindspot: a hotspot file with little documentation to orient a
// reviewer — frequent, poorly-explained change.
func reviewBlindspot() Pattern {
	return Pattern{
		Name:         "REVIEW_BLINDSPOT",
		Scope:        ScopeFile,
		Category:     CategoryOwnership,
		BaseSeverity: 0.5,
		Hotspot:      true,
		Effort:       EffortLow,
		Remediation:  "Add docstrings explaining intent before this file's next change; reviewers have little to go on today.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			doc, ok := floatSignal(ctx.fs, t.A, "docstring_coverage")
			if !ok {
				return nil, nil, false
			}
			cond := marginHighIsGood(doc, 0.2)
			if !cond.satisfied() {
				return nil, nil, false
			}
			tc, _ := floatSignal(ctx.fs, t.A, "total_changes")
			return []condition{cond}, []Evidence{
				evidence(IRSourceIR2, "docstring_coverage", doc, nil, t.A, "documentation coverage"),
				evidence(IRSourceIR5t, "total_changes", tc, nil, t.A, "total changes"),
			}, true
		},
	}
}

// bugAttractor: a hotspot file whose changes are disproportionately fixes.
func bugAttractor() Pattern {
	return Pattern{
		Name:         "BUG_ATTRACTOR",
		Scope:        ScopeFile,
		Category:     CategoryRisk,
		BaseSeverity: 0.7,
		Hotspot:      true,
		Effort:       EffortMedium,
		Remediation:  "Investigate why this file keeps needing fixes; consider a targeted rewrite of the failing area.",
		Candidates:   fileTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			fix, ok := floatSignal(ctx.fs, t.A, "fix_ratio")
			if !ok {
				return nil, nil, false
			}
			cond := marginHighIsBad(fix, 0.5)
			if !cond.satisfied() {
				return nil, nil, false
			}
			tc, _ := floatSignal(ctx.fs, t.A, "total_changes")
			return []condition{cond}, []Evidence{
				evidence(IRSourceIR5t, "fix_ratio", fix, nil, t.A, "fraction of changes that are fixes"),
				evidence(IRSourceIR5t, "total_changes", tc, nil, t.A, "total changes"),
			}, true
		},
	}
}
