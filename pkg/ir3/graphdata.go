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

	"github.com/kraklabs/shannon-insight/pkg/store"
)

// importGraph is the directed IMPORTS graph over every File entity,
// indexed by position for O(1) adjacency lookups during BFS and power
// iteration. Grounded on the teacher's BuildImportGraph
// (other_examples ff4269c0, import_graph.go): group files, collect
// forward edges, then derive the reverse index in a second pass.
type importGraph struct {
	files []*store.Entity
	index map[store.EntityID]int
	out   [][]int // forward IMPORTS adjacency, by file index
	in    [][]int // reverse IMPORTS adjacency
}

func buildImportGraph(fs *store.FactStore) *importGraph {
	files := fs.EntitiesByKind(store.KindFile)
	g := &importGraph{
		files: files,
		index: make(map[store.EntityID]int, len(files)),
		out:   make([][]int, len(files)),
		in:    make([][]int, len(files)),
	}
	for i, f := range files {
		g.index[f.ID] = i
	}
	for _, r := range fs.ByType(store.RelImports) {
		i, okI := g.index[r.From]
		j, okJ := g.index[r.To]
		if !okI || !okJ || i == j {
			continue
		}
		g.out[i] = append(g.out[i], j)
		g.in[j] = append(g.in[j], i)
	}
	for i := range g.out {
		sort.Ints(g.out[i])
		sort.Ints(g.in[i])
	}
	return g
}

func (g *importGraph) n() int { return len(g.files) }

// adjacencyMatrix returns a dense directed weight matrix (weight 1 per
// edge) in file-index order, suitable for PageRank's power iteration.
func (g *importGraph) adjacencyMatrix() [][]float64 {
	n := g.n()
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for _, j := range g.out[i] {
			m[i][j] = 1
		}
	}
	return m
}

// undirectedAdjacencyMatrix folds forward and reverse edges into a
// single symmetric 0/1 matrix, the projection the spectral signals and
// Louvain community detection operate on.
func (g *importGraph) undirectedAdjacencyMatrix() [][]float64 {
	n := g.n()
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i, neighbors := range g.out {
		for _, j := range neighbors {
			m[i][j] = 1
			m[j][i] = 1
		}
	}
	return m
}

// bfsDistances runs a multi-source BFS over adj (either g.out or g.in)
// starting from sources, returning hop count per file index, -1 for
// anything unreached.
func bfsDistances(adj [][]int, sources []int) []int {
	dist := make([]int, len(adj))
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, len(sources))
	for _, s := range sources {
		if dist[s] == -1 {
			dist[s] = 0
			queue = append(queue, s)
		}
	}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, v := range adj[u] {
			if dist[v] == -1 {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}

// reachableCount counts how many distinct nodes (excluding start) are
// reachable from start by following adj edges transitively.
func reachableCount(adj [][]int, start int) int {
	visited := make(map[int]bool)
	queue := []int{start}
	visited[start] = true
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, v := range adj[u] {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}
	return len(visited) - 1
}
