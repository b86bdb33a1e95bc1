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

package ir3

import (
	"math"

	"github.com/kraklabs/shannon-insight/pkg/ir2"
	"github.com/kraklabs/shannon-insight/pkg/parse"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

const (
	pagerankDamping = 0.85
	pagerankEpsilon = 1e-6
	pagerankMaxIter = 100
)

// pagerank runs the classical power-iteration PageRank over a directed
// adjacency matrix, redistributing dangling mass (files with no
// outgoing imports) uniformly every iteration so the rank vector stays
// a probability distribution.
func pagerank(adj [][]float64) []float64 {
	n := len(adj)
	if n == 0 {
		return nil
	}
	outWeight := make([]float64, n)
	for i := range adj {
		for _, w := range adj[i] {
			outWeight[i] += w
		}
	}
	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < pagerankMaxIter; iter++ {
		var dangling float64
		for i := 0; i < n; i++ {
			if outWeight[i] == 0 {
				dangling += rank[i]
			}
		}
		base := (1-pagerankDamping)/float64(n) + pagerankDamping*dangling/float64(n)
		next := make([]float64, n)
		for i := range next {
			next[i] = base
		}
		for i := 0; i < n; i++ {
			if outWeight[i] == 0 {
				continue
			}
			share := pagerankDamping * rank[i] / outWeight[i]
			for j, w := range adj[i] {
				if w != 0 {
					next[j] += share * w
				}
			}
		}
		var diff float64
		for i := range rank {
			diff += math.Abs(next[i] - rank[i])
		}
		rank = next
		if diff < pagerankEpsilon {
			break
		}
	}
	return rank
}

// entryPointIndices identifies every file IR1 flagged with
// has_entry_point or IR2 classified as RoleEntryPoint, the two-pass
// detection §4.2 describes (the "exported function with no caller"
// half still waits on call-graph resolution and isn't attempted here).
func entryPointIndices(g *importGraph) []int {
	var out []int
	for i, f := range g.files {
		if hasEntry, _ := f.Metadata["has_entry_point"].(bool); hasEntry {
			out = append(out, i)
			continue
		}
		if f.MetaString("role") == string(ir2.RoleEntryPoint) {
			out = append(out, i)
		}
	}
	return out
}

// isOrphan reports §4.4's is_orphan predicate: unreferenced and not
// exempted by role.
func isOrphan(inDegree int, role string) bool {
	if inDegree > 0 {
		return false
	}
	return role != string(ir2.RoleEntryPoint) && role != string(ir2.RoleTest)
}

// phantomImportCount counts a file's imports that resolved to neither
// a known project file nor a recognized external dependency — the
// genuinely broken references ir1's resolve pass leaves unmarked.
func phantomImportCount(file *store.Entity) int {
	syntax, ok := file.Metadata["syntax"].(*parse.FileSyntax)
	if !ok {
		return 0
	}
	count := 0
	for _, imp := range syntax.Imports {
		if imp.ResolvedPath == "" && !imp.IsExternal {
			count++
		}
	}
	return count
}
