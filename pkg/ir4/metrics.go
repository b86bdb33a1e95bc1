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

package ir4

import (
	"sort"

	"github.com/kraklabs/shannon-insight/pkg/parse"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// moduleEdges aggregates every cross-module IMPORTS edge once: Ce/Ca
// counts per module for instability, the internal-vs-touching edge
// counts for cohesion, and the distinct (from,to) module pairs the
// DEPENDS_ON condensation and layer_violation_count are built from.
// Neither Ca nor Ce is itself a registered signal (only the derived
// instability is persisted) so this stays an unexported computation.
type moduleEdges struct {
	ce              map[store.EntityID]int
	ca              map[store.EntityID]int
	internal        map[store.EntityID]int
	touching        map[store.EntityID]int
	crossPairWeight map[[2]store.EntityID]int
}

func computeModuleEdges(fs *store.FactStore, moduleOf map[store.EntityID]store.EntityID) *moduleEdges {
	me := &moduleEdges{
		ce:              make(map[store.EntityID]int),
		ca:              make(map[store.EntityID]int),
		internal:        make(map[store.EntityID]int),
		touching:        make(map[store.EntityID]int),
		crossPairWeight: make(map[[2]store.EntityID]int),
	}
	for _, r := range fs.ByType(store.RelImports) {
		if r.From == r.To {
			continue
		}
		mFrom, okFrom := moduleOf[r.From]
		mTo, okTo := moduleOf[r.To]
		if !okFrom || !okTo {
			continue
		}
		if mFrom == mTo {
			me.internal[mFrom]++
			me.touching[mFrom]++
			continue
		}
		me.ce[mFrom]++
		me.ca[mTo]++
		me.touching[mFrom]++
		me.touching[mTo]++
		me.crossPairWeight[[2]store.EntityID{mFrom, mTo}]++
	}
	return me
}

// instability is Martin's Ce/(Ca+Ce), null when a module has no
// cross-module edges at all (§4.5).
func instability(ca, ce int) (float64, bool) {
	if ca+ce == 0 {
		return 0, false
	}
	return float64(ce) / float64(ca+ce), true
}

// abstractness is the share of a module's declared types that are
// interfaces rather than concrete structs/classes/aliases, the same
// ratio as the teacher's Interfaces/(Interfaces+Structs)
// (other_examples ff4269c0, import_graph.go), generalized to
// parse.TypeDef's language-agnostic Kind tag. Null when a module
// declares no types at all.
func abstractness(files []*store.Entity) (float64, bool) {
	interfaces, total := 0, 0
	for _, f := range files {
		syntax, ok := f.Metadata["syntax"].(*parse.FileSyntax)
		if !ok {
			continue
		}
		for _, ty := range syntax.Types {
			total++
			if ty.Kind == "interface" {
				interfaces++
			}
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(interfaces) / float64(total), true
}

// mainSeqDistance is |abstractness + instability - 1|, a module's
// distance from Martin's main sequence.
func mainSeqDistance(abstractness, instability float64) float64 {
	d := abstractness + instability - 1
	if d < 0 {
		d = -d
	}
	return d
}

// cohesion is the fraction of edges touching a module that stay inside
// it. Null when the module has no IMPORTS edges at all.
func cohesion(internal, touching int) (float64, bool) {
	if touching == 0 {
		return 0, false
	}
	return float64(internal) / float64(touching), true
}

// coupling normalizes a module's cross-module edge count by its file
// count: crossEdges/(crossEdges+fileCount). A module with many files
// can absorb more cross-module edges before its coupling approaches 1,
// keeping the signal in the registry's [0,1] domain instead of the
// unbounded raw edge count "normalized by module size" would otherwise
// produce.
func coupling(crossEdges, fileCount int) float64 {
	if fileCount <= 0 {
		return 0
	}
	return float64(crossEdges) / float64(crossEdges+fileCount)
}

// roleConsistency is the share of the modal IR2 role among a module's
// files.
func roleConsistency(files []*store.Entity) float64 {
	if len(files) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, f := range files {
		counts[f.MetaString("role")]++
	}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return float64(max) / float64(len(files))
}

// boundaryAlignment is the fraction of a module's files whose IR3
// community assignment matches the module's majority community. Ties
// break toward the smallest community ID for determinism. Null when
// none of the module's files have a community signal (no IMPORTS
// edges touch them).
func boundaryAlignment(fs *store.FactStore, files []*store.Entity) (float64, bool) {
	fileCommunity := make(map[store.EntityID]int, len(files))
	counts := make(map[int]int)
	for _, f := range files {
		v, ok := fs.Signal(f.ID, "community")
		if !ok {
			continue
		}
		c, _ := v.Int()
		fileCommunity[f.ID] = c
		counts[c]++
	}
	if len(counts) == 0 {
		return 0, false
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	majority, majorityCount := keys[0], -1
	for _, k := range keys {
		if counts[k] > majorityCount {
			majority, majorityCount = k, counts[k]
		}
	}
	matches := 0
	for _, f := range files {
		if c, ok := fileCommunity[f.ID]; ok && c == majority {
			matches++
		}
	}
	return float64(matches) / float64(len(files)), true
}
