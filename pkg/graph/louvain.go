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

package graph

import "sort"

// Edge is one weighted undirected connection. A == B represents a
// self-loop, which Louvain folds into a node's internal weight rather
// than treating as a neighbor relationship.
type Edge struct {
	A, B string
	W    float64
}

// Graph is a weighted undirected multigraph; parallel edges between the
// same pair are summed when Louvain builds its adjacency.
type Graph struct {
	nodes map[string]bool
	edges []Edge
}

func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]bool)}
}

// AddNode registers n even if it ends up with no edges, so it still
// gets a singleton community.
func (g *Graph) AddNode(n string) {
	g.nodes[n] = true
}

// AddEdge accumulates a weighted connection between a and b. Calling it
// twice for the same pair adds the weights, the co-occurrence-count
// pattern ir2 and ir3 both rely on.
func (g *Graph) AddEdge(a, b string, w float64) {
	g.AddNode(a)
	g.AddNode(b)
	if w == 0 {
		return
	}
	g.edges = append(g.edges, Edge{A: a, B: b, W: w})
}

// Louvain partitions g into communities by greedy modularity
// optimization (Blondel et al.), resolution 1.0 being the classical
// modularity objective. Returns each original node's community as a
// small dense integer, assigned in sorted order of the underlying
// community representative so runs on identical input are stable
// (§8 determinism).
func Louvain(g *Graph, resolution float64) map[string]int {
	if resolution <= 0 {
		resolution = 1.0
	}

	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	adj := map[string]map[string]float64{}
	selfLoop := map[string]float64{}
	for _, e := range g.edges {
		if e.A == e.B {
			selfLoop[e.A] += e.W
			continue
		}
		addAdj(adj, e.A, e.B, e.W)
		addAdj(adj, e.B, e.A, e.W)
	}

	members := map[string][]string{}
	for _, n := range nodes {
		members[n] = []string{n}
	}

	for {
		comm, improved := localMove(nodes, adj, selfLoop, resolution)
		if !improved {
			break
		}
		newNodes, newAdj, newSelfLoop, newMembers := aggregate(nodes, adj, selfLoop, comm, members)
		if len(newNodes) == len(nodes) {
			nodes, adj, selfLoop, members = newNodes, newAdj, newSelfLoop, newMembers
			break
		}
		nodes, adj, selfLoop, members = newNodes, newAdj, newSelfLoop, newMembers
		if len(nodes) <= 1 {
			break
		}
	}

	commKeys := make([]string, 0, len(members))
	for c := range members {
		commKeys = append(commKeys, c)
	}
	sort.Strings(commKeys)

	result := make(map[string]int, len(g.nodes))
	for id, c := range commKeys {
		for _, orig := range members[c] {
			result[orig] = id
		}
	}
	return result
}

// Modularity scores a partition comm of g against Newman's Q: the
// fraction of edge weight falling inside communities minus the
// expected fraction under a random graph with the same degree
// sequence. comm need not come from Louvain — any partition over g's
// nodes is accepted, which is what lets ir3 score both the Louvain
// community assignment and alternative groupings against the same
// graph.
func Modularity(g *Graph, comm map[string]int) float64 {
	degree := map[string]float64{}
	m2 := 0.0
	for _, e := range g.edges {
		if e.A == e.B {
			degree[e.A] += 2 * e.W
			m2 += 2 * e.W
			continue
		}
		degree[e.A] += e.W
		degree[e.B] += e.W
		m2 += 2 * e.W
	}
	if m2 == 0 {
		return 0
	}

	degSum := map[int]float64{}
	for n := range g.nodes {
		degSum[comm[n]] += degree[n]
	}
	internal := map[int]float64{}
	for _, e := range g.edges {
		if comm[e.A] != comm[e.B] {
			continue
		}
		internal[comm[e.A]] += 2 * e.W
	}

	q := 0.0
	for c, d := range degSum {
		q += internal[c]/m2 - (d/m2)*(d/m2)
	}
	return q
}

func addAdj(adj map[string]map[string]float64, a, b string, w float64) {
	m, ok := adj[a]
	if !ok {
		m = map[string]float64{}
		adj[a] = m
	}
	m[b] += w
}

// localMove runs Louvain's phase 1: repeated sweeps moving each node to
// the neighboring community that most increases modularity, until a
// full sweep makes no move.
func localMove(nodes []string, adj map[string]map[string]float64, selfLoop map[string]float64, resolution float64) (map[string]string, bool) {
	degree := map[string]float64{}
	m2 := 0.0
	for _, n := range nodes {
		d := 2 * selfLoop[n]
		for _, w := range adj[n] {
			d += w
		}
		degree[n] = d
		m2 += d
	}
	comm := map[string]string{}
	commTot := map[string]float64{}
	for _, n := range nodes {
		comm[n] = n
		commTot[n] = degree[n]
	}
	if m2 == 0 {
		return comm, false
	}

	improvedAny := false
	for pass := 0; pass < 50; pass++ {
		movedThisPass := false
		for _, n := range nodes {
			c0 := comm[n]
			commTot[c0] -= degree[n]

			neighborWeight := map[string]float64{}
			for nb, w := range adj[n] {
				if nb == n {
					continue
				}
				neighborWeight[comm[nb]] += w
			}

			candidates := make([]string, 0, len(neighborWeight))
			for c := range neighborWeight {
				candidates = append(candidates, c)
			}
			sort.Strings(candidates)

			bestC := c0
			bestGain := neighborWeight[c0] - resolution*commTot[c0]*degree[n]/m2
			for _, c := range candidates {
				if c == c0 {
					continue
				}
				gain := neighborWeight[c] - resolution*commTot[c]*degree[n]/m2
				if gain > bestGain+1e-12 {
					bestGain = gain
					bestC = c
				}
			}

			commTot[bestC] += degree[n]
			if bestC != c0 {
				comm[n] = bestC
				movedThisPass = true
				improvedAny = true
			}
		}
		if !movedThisPass {
			break
		}
	}
	return comm, improvedAny
}

// aggregate collapses each community from the current level into a
// single super-node for the next level, carrying internal edge weight
// over as a self-loop and summing cross-community edges.
func aggregate(nodes []string, adj map[string]map[string]float64, selfLoop map[string]float64, comm map[string]string, members map[string][]string) ([]string, map[string]map[string]float64, map[string]float64, map[string][]string) {
	newMembers := map[string][]string{}
	for _, n := range nodes {
		c := comm[n]
		newMembers[c] = append(newMembers[c], members[n]...)
	}

	newSelfLoop := map[string]float64{}
	for _, n := range nodes {
		newSelfLoop[comm[n]] += selfLoop[n]
	}

	type pair struct{ a, b string }
	raw := map[pair]float64{}
	for _, n := range nodes {
		cn := comm[n]
		for nb, w := range adj[n] {
			cnb := comm[nb]
			if cn == cnb {
				newSelfLoop[cn] += w / 2
				continue
			}
			a, b := cn, cnb
			if b < a {
				a, b = b, a
			}
			raw[pair{a, b}] += w
		}
	}

	newAdj := map[string]map[string]float64{}
	for p, w := range raw {
		w /= 2
		if w == 0 {
			continue
		}
		addAdj(newAdj, p.a, p.b, w)
		addAdj(newAdj, p.b, p.a, w)
	}

	newNodes := make([]string, 0, len(newMembers))
	for c := range newMembers {
		newNodes = append(newNodes, c)
	}
	sort.Strings(newNodes)

	return newNodes, newAdj, newSelfLoop, newMembers
}
