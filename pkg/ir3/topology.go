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
	"sort"

	"github.com/kraklabs/shannon-insight/pkg/graph"
)

// louvainCommunities projects g's directed IMPORTS edges onto an
// undirected graph (parallel forward/reverse edges between the same
// pair collapse into one weighted edge) and partitions it with
// Louvain, returning each file's community as a file-index-keyed slice
// plus the graph.Graph used, so callers that also need Modularity can
// reuse the same weighted projection instead of rebuilding it.
func louvainCommunities(g *importGraph) ([]int, *graph.Graph) {
	proj := graph.NewGraph()
	for _, f := range g.files {
		proj.AddNode(string(f.ID))
	}
	seen := make(map[[2]int]bool)
	for i, neighbors := range g.out {
		for _, j := range neighbors {
			a, b := i, j
			if b < a {
				a, b = b, a
			}
			key := [2]int{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			proj.AddEdge(string(g.files[a].ID), string(g.files[b].ID), 1)
		}
	}

	labels := graph.Louvain(proj, 1.0)
	out := make([]int, g.n())
	for i, f := range g.files {
		out[i] = labels[string(f.ID)]
	}
	return out, proj
}

// modularityOf scores a file-index-keyed community assignment against
// proj, the undirected IMPORTS projection louvainCommunities built.
func modularityOf(g *importGraph, proj *graph.Graph, communities []int) float64 {
	labels := make(map[string]int, len(communities))
	for i, f := range g.files {
		labels[string(f.ID)] = communities[i]
	}
	return graph.Modularity(proj, labels)
}

// tarjanSCCSizes returns the size of every strongly connected
// component in the directed import graph, iteratively (an explicit
// stack rather than recursion) so a deep dependency chain can't
// overflow the goroutine stack — the same shape as the teacher's
// CyclicDependencies (other_examples e0a5470a, graph-analytics.go),
// adapted from string node IDs to dense integer indices.
func tarjanSCCSizes(g *importGraph) []int {
	n := g.n()
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	var sccs [][]int
	next := 0

	type frame struct {
		node    int
		edgeIdx int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		call := []frame{{node: start}}
		for len(call) > 0 {
			top := &call[len(call)-1]
			if !visited[top.node] {
				visited[top.node] = true
				index[top.node] = next
				lowlink[top.node] = next
				next++
				stack = append(stack, top.node)
				onStack[top.node] = true
			}

			recursed := false
			for top.edgeIdx < len(g.out[top.node]) {
				v := g.out[top.node][top.edgeIdx]
				top.edgeIdx++
				if !visited[v] {
					call = append(call, frame{node: v})
					recursed = true
					break
				} else if onStack[v] {
					if index[v] < lowlink[top.node] {
						lowlink[top.node] = index[v]
					}
				}
			}
			if recursed {
				continue
			}

			if lowlink[top.node] == index[top.node] {
				var scc []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == top.node {
						break
					}
				}
				sccs = append(sccs, scc)
			}

			finished := top.node
			call = call[:len(call)-1]
			if len(call) > 0 {
				parent := &call[len(call)-1]
				if lowlink[finished] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[finished]
				}
			}
		}
	}

	sizes := make([]int, 0, len(sccs))
	for _, scc := range sccs {
		if len(scc) > 1 {
			sizes = append(sizes, len(scc))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// topologySignals bundles the codebase-scope REFERENCE signals §4.4
// derives from the same import graph pass, so Stage.Run can compute
// them once and write them in a single loop.
type topologySignals struct {
	Modularity      float64
	Fiedler         float64
	FiedlerOK       bool
	SpectralGap     float64
	SpectralGapOK   bool
	CycleCount      int
	CentralityGini  float64
	OrphanRatio     float64
	PhantomRatio    float64
	GlueDeficit     float64
}

func computeTopology(g *importGraph, communities []int, proj *graph.Graph, ranks []float64, orphanCount, totalImports, phantomImports, glueEligible int) topologySignals {
	n := g.n()
	ts := topologySignals{}
	if n > 0 {
		ts.Modularity = modularityOf(g, proj, communities)
		ts.OrphanRatio = float64(orphanCount) / float64(n)
		ts.GlueDeficit = 1 - float64(glueEligible)/float64(n)
	}
	ts.Fiedler, ts.FiedlerOK, ts.SpectralGap, ts.SpectralGapOK = spectralSignals(g.undirectedAdjacencyMatrix())
	ts.CycleCount = len(tarjanSCCSizes(g))
	ts.CentralityGini = giniCoefficient(ranks)
	if totalImports > 0 {
		ts.PhantomRatio = float64(phantomImports) / float64(totalImports)
	}
	return ts
}
