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

	"github.com/kraklabs/shannon-insight/pkg/store"
)

// moduleGraph is the module-level DEPENDS_ON condensation input: one
// node per module, one edge per distinct (from,to) module pair with at
// least one cross-module IMPORTS edge.
type moduleGraph struct {
	ids   []store.EntityID
	index map[store.EntityID]int
	out   [][]int
}

func buildModuleGraph(modules []*moduleInfo, pairs map[[2]store.EntityID]int) *moduleGraph {
	mg := &moduleGraph{index: make(map[store.EntityID]int, len(modules))}
	for i, m := range modules {
		mg.ids = append(mg.ids, m.id)
		mg.index[m.id] = i
	}
	mg.out = make([][]int, len(mg.ids))
	for pair := range pairs {
		i, okI := mg.index[pair[0]]
		j, okJ := mg.index[pair[1]]
		if !okI || !okJ || i == j {
			continue
		}
		mg.out[i] = append(mg.out[i], j)
	}
	for i := range mg.out {
		sort.Ints(mg.out[i])
	}
	return mg
}

// tarjanComponents assigns each module a strongly-connected-component
// ID (0-based, in discovery order). Iterative (an explicit frame
// stack, not recursion) for the same reason as ir3's tarjanSCCSizes:
// ported from the same shape (other_examples e0a5470a,
// graph-analytics.go's CyclicDependencies), adapted here to return
// full component membership rather than only component sizes, since
// the layering walk below needs to know which modules share a cycle.
func tarjanComponents(g *moduleGraph) []int {
	n := len(g.ids)
	comp := make([]int, n)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	for i := range index {
		index[i] = -1
		comp[i] = -1
	}
	var stack []int
	next := 0
	nextComp := 0

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
				} else if onStack[v] && index[v] < lowlink[top.node] {
					lowlink[top.node] = index[v]
				}
			}
			if recursed {
				continue
			}

			if lowlink[top.node] == index[top.node] {
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp[w] = nextComp
					if w == top.node {
						break
					}
				}
				nextComp++
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
	return comp
}

// layerViolations counts, per module, the DEPENDS_ON edges it
// initiates that land inside its own strongly-connected component.
// Topologically sorting the condensation (§4.5) places every module
// that participates in a cycle into one condensed node; the edges that
// collapse away in that step are exactly the ones no linear layering
// can ever satisfy; whichever direction you draw within the cycle, at
// least one edge runs from a lower layer to a higher one. Those
// collapsed edges are the layer violations; a module outside every
// cycle (its own singleton component) can never contribute one.
// Attributed to the edge's source, the module that carries the
// dependency inward.
func layerViolations(g *moduleGraph, comp []int) map[store.EntityID]int {
	out := make(map[store.EntityID]int, len(g.ids))
	for i, neighbors := range g.out {
		for _, j := range neighbors {
			if comp[i] == comp[j] {
				out[g.ids[i]]++
			}
		}
	}
	return out
}
