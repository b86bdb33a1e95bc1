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

func codebaseTargets(fs *store.FactStore) []target {
	codebases := fs.EntitiesByKind(store.KindCodebase)
	out := make([]target, 0, len(codebases))
	for _, c := range codebases {
		out = append(out, target{A: c.ID})
	}
	return out
}

// codebasePatterns returns the two CODEBASE-scope finders (§4.7).
func codebasePatterns() []Pattern {
	return []Pattern{
		architectureErosion(),
		flatArchitecture(),
	}
}

// codebaseViolationRate is the current run's layer-violation density:
// total cross-layer violations over the number of modules that could
// have committed one.
func codebaseViolationRate(fs *store.FactStore) (float64, bool) {
	modules := fs.EntitiesByKind(store.KindModule)
	if len(modules) == 0 {
		return 0, false
	}
	total := 0.0
	for _, m := range modules {
		if v, ok := floatSignal(fs, m.ID, "layer_violation_count"); ok {
			total += v
		}
	}
	return total / float64(len(modules)), true
}

// strictlyIncreasing reports whether vs has at least 3 elements and is
// strictly increasing end to end.
func strictlyIncreasing(vs []float64) bool {
	if len(vs) < 3 {
		return false
	}
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return false
		}
	}
	return true
}

// architectureErosion: the codebase's layer-violation rate has strictly
// increased over three or more snapshots. architectureHistory is wired
// in by the caller (the snapshot layer holds prior runs' rates); a
// first run with no history never fires this pattern.
func architectureErosion() Pattern {
	return Pattern{
		Name:         "ARCHITECTURE_EROSION",
		Scope:        ScopeCodebase,
		Category:     CategoryArchitecture,
		BaseSeverity: 0.7,
		Effort:       EffortHigh,
		Remediation:  "Layering is getting worse snapshot over snapshot; revisit the module boundaries before the trend continues.",
		Candidates:   codebaseTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			current, ok := codebaseViolationRate(ctx.fs)
			if !ok {
				return nil, nil, false
			}
			series := append(append([]float64(nil), ctx.architectureHistory...), current)
			if !strictlyIncreasing(series) {
				return nil, nil, false
			}
			return []condition{boolCondition(true)}, []Evidence{
				evidence(IRSourceIR4, "layer_violation_rate", current, nil, t.A, "current layer-violation rate"),
			}, true
		},
	}
}

// flatArchitecture: a codebase large enough to warrant module boundaries
// that has none — everything lives in a single module.
func flatArchitecture() Pattern {
	const minFilesForConcern = 20
	return Pattern{
		Name:         "FLAT_ARCHITECTURE",
		Scope:        ScopeCodebase,
		Category:     CategoryArchitecture,
		BaseSeverity: 0.4,
		Effort:       EffortHigh,
		Remediation:  "Introduce module boundaries; this codebase is large enough that a flat structure is starting to hide its architecture.",
		Candidates:   codebaseTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			moduleCount := ctx.fs.CountEntities(store.KindModule)
			fileCount := ctx.fs.CountEntities(store.KindFile)
			if moduleCount > 1 || fileCount < minFilesForConcern {
				return nil, nil, false
			}
			return []condition{boolCondition(true)}, []Evidence{
				evidence(IRSourceIR4, "module_count", float64(moduleCount), nil, t.A, "distinct module count"),
				evidence(IRSourceIR1, "file_count", float64(fileCount), nil, t.A, "total file count"),
			}, true
		},
	}
}
