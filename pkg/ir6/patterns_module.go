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

func moduleTargets(fs *store.FactStore) []target {
	modules := fs.EntitiesByKind(store.KindModule)
	out := make([]target, 0, len(modules))
	for _, m := range modules {
		out = append(out, target{A: m.ID})
	}
	return out
}

// modulePatterns returns the two MODULE-scope finders (§4.7).
func modulePatterns() []Pattern {
	return []Pattern{
		layerViolation(),
		zoneOfPain(),
	}
}

// layerViolation reads IR4's own layer_violation_count signal, which
// already counts this module's cross-layer import violations.
func layerViolation() Pattern {
	return Pattern{
		Name:         "LAYER_VIOLATION",
		Scope:        ScopeModule,
		Category:     CategoryArchitecture,
		BaseSeverity: 0.6,
		Effort:       EffortHigh,
		Remediation:  "This module imports across a layer boundary it shouldn't cross; route through the intended abstraction instead.",
		Candidates:   moduleTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			count, ok := floatSignal(ctx.fs, t.A, "layer_violation_count")
			if !ok || count < 1 {
				return nil, nil, false
			}
			return []condition{boolCondition(true)}, []Evidence{
				evidence(IRSourceIR4, "layer_violation_count", count, nil, t.A, "cross-layer import count"),
			}, true
		},
	}
}

// zoneOfPain: `instability != null AND abstractness < 0.3 AND
// instability < 0.3` — concrete and depended-upon, hard to change safely.
func zoneOfPain() Pattern {
	return Pattern{
		Name:         "ZONE_OF_PAIN",
		Scope:        ScopeModule,
		Category:     CategoryArchitecture,
		BaseSeverity: 0.55,
		Effort:       EffortHigh,
		Remediation:  "This module is concrete and heavily depended upon; introduce an abstraction seam before changing it further.",
		Candidates:   moduleTargets,
		Predicate: func(ctx *evalContext, t target) ([]condition, []Evidence, bool) {
			instability, instOK := floatSignal(ctx.fs, t.A, "instability")
			abstractness, absOK := floatSignal(ctx.fs, t.A, "abstractness")
			if !instOK || !absOK {
				return nil, nil, false
			}
			instCond := marginHighIsGood(instability, 0.3)
			absCond := marginHighIsGood(abstractness, 0.3)
			if !(instCond.satisfied() && absCond.satisfied()) {
				return nil, nil, false
			}
			return []condition{instCond, absCond}, []Evidence{
				evidence(IRSourceIR4, "instability", instability, nil, t.A, "Ce/(Ca+Ce)"),
				evidence(IRSourceIR4, "abstractness", abstractness, nil, t.A, "abstract-type ratio"),
			}, true
		},
	}
}
