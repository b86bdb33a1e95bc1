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

package ir5s

import "github.com/kraklabs/shannon-insight/internal/contract"

// term is one weighted input to a composite. Present is false when the
// underlying signal wasn't available for this entity; weightedComposite
// drops such terms and renormalizes the remaining weights to sum to 1
// (§4.6: "Missing inputs are dropped and remaining weights renormalized
// to 1").
type term struct {
	weight  float64
	value   float64
	present bool
}

// weightedComposite combines terms into a single [0,1] score, clamping
// the result (§4.6). ok is false when every term was missing, meaning the
// composite itself cannot be computed for this entity.
func weightedComposite(terms ...term) (score float64, ok bool) {
	var weightSum, valueSum float64
	for _, t := range terms {
		if !t.present {
			continue
		}
		weightSum += t.weight
		valueSum += t.weight * t.value
	}
	if weightSum == 0 {
		return 0, false
	}
	raw := valueSum / weightSum
	clamped, _ := contract.ClampUnit(raw)
	return clamped, true
}
