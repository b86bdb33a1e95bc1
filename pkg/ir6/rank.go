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

import "sort"

// rankKey is §4.7's `0.7*severity + 0.3*confidence`.
func rankKey(f Finding) float64 {
	return 0.7*f.Severity + 0.3*f.Confidence
}

// rankFindings orders findings by descending rank_key, breaking ties by
// scope breadth (CODEBASE > MODULE > FILE), then evidence item count
// descending, then finding type alphabetically (§4.7).
func rankFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		ka, kb := rankKey(a), rankKey(b)
		if ka != kb {
			return ka > kb
		}
		if a.Scope.breadth() != b.Scope.breadth() {
			return a.Scope.breadth() > b.Scope.breadth()
		}
		if len(a.Evidence) != len(b.Evidence) {
			return len(a.Evidence) > len(b.Evidence)
		}
		return a.Type < b.Type
	})
}
