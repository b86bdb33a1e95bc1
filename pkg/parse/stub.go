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

package parse

import "sort"

// IsStub reports whether f should count toward a file's stub_ratio: an
// empty or near-empty body (§ SHAPE dimension).
func IsStub(f FunctionDef) bool {
	return f.BodyIsEmpty
}

// StubRatio computes the fraction of fns classified as stubs. Returns 0
// for an empty function list rather than NaN (§7: divide-by-zero is an
// InvariantViolation default, not a crash).
func StubRatio(fns []FunctionDef) float64 {
	if len(fns) == 0 {
		return 0
	}
	stubs := 0
	for _, f := range fns {
		if IsStub(f) {
			stubs++
		}
	}
	return float64(stubs) / float64(len(fns))
}

// ImplGini computes the Gini coefficient of per-function implementation
// size (BodyStatementCount), a proxy for how evenly "real work" is
// distributed across a file's functions. 0 means every function has the
// same size; values approach 1 as size concentrates in a few functions.
// Returns 0 for fewer than two functions or when every function is
// size-zero.
func ImplGini(fns []FunctionDef) float64 {
	if len(fns) < 2 {
		return 0
	}
	sizes := make([]float64, len(fns))
	var total float64
	for i, f := range fns {
		sizes[i] = float64(f.BodyStatementCount)
		total += sizes[i]
	}
	if total == 0 {
		return 0
	}
	sort.Float64s(sizes)

	n := float64(len(sizes))
	var weightedSum float64
	for i, s := range sizes {
		weightedSum += float64(i+1) * s
	}
	return (2*weightedSum)/(n*total) - (n+1)/n
}
