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

// target is a pattern's unit of evaluation: one entity for FILE/MODULE/
// CODEBASE scope, two for FILE_PAIR/MODULE_PAIR. B is empty for the
// singular scopes.
type target struct {
	A, B store.EntityID
}

// Pattern is the declarative finder capability (§4.7): a name, scope,
// base severity, and a predicate/evidence closure pair evaluated against
// every candidate target Candidates produces. Predicate returns nil,
// false when the target doesn't match.
type Pattern struct {
	Name         string
	Scope        Scope
	Category     Category
	BaseSeverity float64
	Hotspot      bool
	Effort       Effort
	Remediation  string

	// Candidates enumerates the targets worth testing. Most patterns
	// derive this from the relation type their predicate reads (e.g.
	// every COCHANGES_WITH edge), which is both the pattern's declared
	// "required relation" and a far smaller set than the full O(n^2)
	// cross product of entities.
	Candidates func(fs *store.FactStore) []target

	// Predicate evaluates one candidate target, returning the finding's
	// confidence conditions and evidence when it matches.
	Predicate func(ctx *evalContext, t target) (conds []condition, evidence []Evidence, matched bool)
}

// evaluate runs p against every one of its candidates, building a
// Finding for each match. Hotspot-flagged patterns additionally require
// isHotspot on the target's first entity (§4.7's hotspot filter applies
// per FILE/MODULE target; pair-scope hotspot patterns check either
// endpoint, since the filter's wording targets a single entity).
func (p Pattern) evaluate(ctx *evalContext) []Finding {
	var findings []Finding
	for _, t := range p.Candidates(ctx.fs) {
		if p.Hotspot && !p.passesHotspot(ctx, t) {
			continue
		}
		conds, evidence, ok := p.Predicate(ctx, t)
		if !ok {
			continue
		}
		findings = append(findings, Finding{
			Type:        p.Name,
			Scope:       p.Scope,
			Category:    p.Category,
			Targets:     sortTargets(p.targetKeys(ctx.fs, t)),
			Severity:    adjustedSeverity(p.BaseSeverity, conds...),
			Confidence:  findingConfidence(conds...),
			Evidence:    sortEvidence(evidence),
			Remediation: p.Remediation,
			Effort:      p.Effort,
			Hotspot:     p.Hotspot,
		})
	}
	return findings
}

func (p Pattern) passesHotspot(ctx *evalContext, t target) bool {
	if isHotspot(ctx.fs, t.A, ctx.medianChanges, ctx.medianChangesOK) {
		return true
	}
	if t.B != "" && isHotspot(ctx.fs, t.B, ctx.medianChanges, ctx.medianChangesOK) {
		return true
	}
	return false
}

func (p Pattern) targetKeys(fs *store.FactStore, t target) []string {
	keys := make([]string, 0, 2)
	if e, ok := fs.Entity(t.A); ok {
		keys = append(keys, e.Key)
	}
	if t.B != "" {
		if e, ok := fs.Entity(t.B); ok {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Patterns returns the fixed catalog of the 20 finders that run in IR6
// (§4.7 gives representative contracts for these; CHRONIC_PROBLEM, the
// 21st named pattern, is implemented in the snapshot layer, not here —
// see that package's doc comment).
func Patterns() []Pattern {
	var all []Pattern
	all = append(all, fileScopePatterns()...)
	all = append(all, filePairPatterns()...)
	all = append(all, modulePatterns()...)
	all = append(all, modulePairPatterns()...)
	all = append(all, codebasePatterns()...)
	return all
}
