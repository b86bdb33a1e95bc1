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
	"sort"
)

// powerIterations bounds the deflated power-iteration solves used for
// the codebase's spectral signals. There is no eigensolver library in
// the dependency set this module draws from, so fiedlerValue and
// spectralGap are approximated by hand with shifted, deflated power
// iteration rather than an exact decomposition — acceptable per the
// same "approximation is fine at scale" posture the reference
// betweenness centrality calculation takes.
const powerIterations = 300

func matVec(m [][]float64, v []float64) []float64 {
	n := len(m)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		row := m[i]
		var sum float64
		for j, w := range row {
			if w != 0 {
				sum += w * v[j]
			}
		}
		out[i] = sum
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float64) {
	norm := math.Sqrt(dot(v, v))
	if norm < 1e-12 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// powerIterationTop finds the dominant eigenpair of symmetric matrix m
// by repeated multiplication, seeded with a fixed asymmetric vector so
// the result is identical across runs on identical input.
func powerIterationTop(m [][]float64) (float64, []float64) {
	n := len(m)
	if n == 0 {
		return 0, nil
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = 1 + float64(i)/float64(n)
	}
	normalize(v)

	var lambda float64
	for iter := 0; iter < powerIterations; iter++ {
		next := matVec(m, v)
		norm := math.Sqrt(dot(next, next))
		if norm < 1e-12 {
			return 0, v
		}
		for i := range next {
			next[i] /= norm
		}
		lambda = dot(next, matVec(m, next))
		v = next
	}
	return lambda, v
}

// deflate removes eigenpair (lambda, v) from symmetric matrix m so a
// subsequent powerIterationTop call converges to the next-largest
// eigenvalue instead.
func deflate(m [][]float64, v []float64, lambda float64) [][]float64 {
	n := len(m)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m[i][j] - lambda*v[i]*v[j]
		}
	}
	return out
}

// shiftedComplement returns lambdaMax*I - m, which reverses m's
// eigenvalue ordering: m's smallest eigenvalue becomes the largest
// eigenvalue of the result.
func shiftedComplement(m [][]float64, lambdaMax float64) [][]float64 {
	n := len(m)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			v := -m[i][j]
			if i == j {
				v += lambdaMax
			}
			out[i][j] = v
		}
	}
	return out
}

// normalizedLaplacian builds I - D^-1/2 A D^-1/2 from an undirected,
// non-negative weighted adjacency matrix.
func normalizedLaplacian(adj [][]float64) [][]float64 {
	n := len(adj)
	deg := make([]float64, n)
	for i := range adj {
		for j := range adj[i] {
			deg[i] += adj[i][j]
		}
	}
	lap := make([][]float64, n)
	for i := range lap {
		lap[i] = make([]float64, n)
		for j := range lap[i] {
			if i == j {
				if deg[i] > 0 {
					lap[i][j] = 1
				}
				continue
			}
			if adj[i][j] != 0 && deg[i] > 0 && deg[j] > 0 {
				lap[i][j] = -adj[i][j] / math.Sqrt(deg[i]*deg[j])
			}
		}
	}
	return lap
}

// spectralSignals computes the fiedler value (second-smallest
// eigenvalue of the normalized Laplacian) and the spectral gap
// (largest eigenvalue minus second-largest) of an undirected weighted
// graph given as a dense adjacency matrix. Both are null for graphs
// with fewer than two nodes.
func spectralSignals(adj [][]float64) (fiedler float64, fiedlerOK bool, gap float64, gapOK bool) {
	n := len(adj)
	if n < 2 {
		return 0, false, 0, false
	}

	lap := normalizedLaplacian(adj)
	lambda1, v1 := powerIterationTop(lap)
	if lambda1 < 1e-9 {
		// every eigenvalue of a disconnected, edgeless Laplacian is 0.
		return 0, true, 0, true
	}

	lap2 := deflate(lap, v1, lambda1)
	lambda2, _ := powerIterationTop(lap2)
	gap, gapOK = lambda1-lambda2, true

	shifted := shiftedComplement(lap, lambda1)
	shiftedTop, shiftedVec := powerIterationTop(shifted)
	shiftedDeflated := deflate(shifted, shiftedVec, shiftedTop)
	shiftedSecond, _ := powerIterationTop(shiftedDeflated)
	fiedler, fiedlerOK = lambda1-shiftedSecond, true
	return
}

// giniCoefficient measures inequality across values, 0 for a perfectly
// uniform distribution and approaching 1 as weight concentrates on a
// single value. The formula mirrors parse.ImplGini, generalized from
// per-function implementation size to an arbitrary value set.
func giniCoefficient(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	if total == 0 {
		return 0
	}

	n := float64(len(sorted))
	var weightedSum float64
	for i, v := range sorted {
		weightedSum += float64(i+1) * v
	}
	return (2*weightedSum)/(n*total) - (n+1)/n
}
