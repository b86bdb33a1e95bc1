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

import "github.com/kraklabs/shannon-insight/pkg/store"

// wiringScore fuses the codebase's wiring-quality signals (§4.6): all
// three inputs are lower_is_better, so the composite inverts their mean.
func wiringScore(fs *store.FactStore, codebase store.EntityID) (float64, bool) {
	orphanRatio, orphanOK := floatSignal(fs, codebase, "orphan_ratio")
	phantomRatio, phantomOK := floatSignal(fs, codebase, "phantom_ratio")
	glueDeficit, glueOK := floatSignal(fs, codebase, "glue_deficit")

	badness, ok := weightedComposite(
		term{weight: 1, value: orphanRatio, present: orphanOK},
		term{weight: 1, value: phantomRatio, present: phantomOK},
		term{weight: 1, value: glueDeficit, present: glueOK},
	)
	if !ok {
		return 0, false
	}
	return 1 - badness, true
}

// architectureHealth fuses modularity, cycle_count, and centrality_gini
// (§4.6) after normalizing each to a higher-is-better [0,1] value:
// modularity is rescaled from its [-0.5,1] domain, cycle_count is
// inverted via 1/(1+count), and centrality_gini (topology centralization)
// is treated as lower_is_better, matching the composite's own polarity.
func architectureHealth(fs *store.FactStore, codebase store.EntityID) (float64, bool) {
	modularity, modOK := floatSignal(fs, codebase, "modularity")
	cycles, cyclesOK := floatSignal(fs, codebase, "cycle_count")
	gini, giniOK := floatSignal(fs, codebase, "centrality_gini")

	var modNorm, cycleNorm, giniInv float64
	if modOK {
		modNorm = (modularity + 0.5) / 1.5
	}
	if cyclesOK {
		cycleNorm = 1 / (1 + cycles)
	}
	if giniOK {
		giniInv = 1 - gini
	}

	return weightedComposite(
		term{weight: 1, value: modNorm, present: modOK},
		term{weight: 1, value: cycleNorm, present: cyclesOK},
		term{weight: 1, value: giniInv, present: giniOK},
	)
}

// codebaseHealth is the top-level global composite: the equally weighted
// mean of architecture_health and wiring_score (§4.6).
func codebaseHealth(archHealth float64, archOK bool, wiring float64, wiringOK bool) (float64, bool) {
	return weightedComposite(
		term{weight: 1, value: archHealth, present: archOK},
		term{weight: 1, value: wiring, present: wiringOK},
	)
}
