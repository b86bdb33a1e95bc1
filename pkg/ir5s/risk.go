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

import (
	"github.com/kraklabs/shannon-insight/pkg/parse"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// fileRiskInputs is the shared set of raw signal reads riskScore and
// rawRisk both need, computed once per file.
type fileRiskInputs struct {
	pagerank      float64
	pagerankOK    bool
	blastRadius   float64
	blastRadiusOK bool
	cognitiveLoad float64
	cognitiveLoadOK bool

	instabilityFactor float64
	trajectoryOK      bool

	busFactor   float64
	busFactorOK bool
}

func readFileRiskInputs(fs *store.FactStore, id store.EntityID) fileRiskInputs {
	var in fileRiskInputs
	in.pagerank, in.pagerankOK = floatSignal(fs, id, "pagerank")
	in.blastRadius, in.blastRadiusOK = floatSignal(fs, id, "blast_radius_size")
	in.cognitiveLoad, in.cognitiveLoadOK = floatSignal(fs, id, "cognitive_load")

	if traj, ok := floatSignal(fs, id, "trajectory"); ok {
		in.trajectoryOK = true
		if isChurningOrSpiking(traj) {
			in.instabilityFactor = 1.0
		} else {
			in.instabilityFactor = 0.3
		}
	}

	in.busFactor, in.busFactorOK = floatSignal(fs, id, "bus_factor")
	return in
}

// riskScore computes the percentile-normalized risk_score (§4.6):
// 0.25·pctl(pagerank) + 0.20·pctl(blast_radius_size) + 0.20·pctl(cognitive_load)
// + 0.20·instability_factor + 0.15·(1 - bus_factor/max_bus_factor).
func riskScore(in fileRiskInputs, pagerankPctl, blastPctl, cogPctl float64, pagerankPctlOK, blastPctlOK, cogPctlOK bool, maxBusFactor float64, maxBusFactorOK bool) (float64, bool) {
	busTerm, busTermOK := 0.0, false
	if in.busFactorOK && maxBusFactorOK && maxBusFactor > 0 {
		busTerm = 1 - in.busFactor/maxBusFactor
		busTermOK = true
	}
	return weightedComposite(
		term{weight: 0.25, value: pagerankPctl, present: pagerankPctlOK},
		term{weight: 0.20, value: blastPctl, present: blastPctlOK},
		term{weight: 0.20, value: cogPctl, present: cogPctlOK},
		term{weight: 0.20, value: in.instabilityFactor, present: in.trajectoryOK},
		term{weight: 0.15, value: busTerm, present: busTermOK},
	)
}

// rawRisk computes the same weighted shape as riskScore but with
// corpus-max absolute normalization instead of percentile ranks, the
// input the health Laplacian (§4.6) is defined against.
func rawRisk(in fileRiskInputs, maxPagerank, maxBlast, maxCognitive, maxBusFactor float64, maxPagerankOK, maxBlastOK, maxCognitiveOK, maxBusFactorOK bool) (float64, bool) {
	pagerankTerm, pagerankOK := 0.0, false
	if in.pagerankOK && maxPagerankOK && maxPagerank > 0 {
		pagerankTerm, pagerankOK = in.pagerank/maxPagerank, true
	}
	blastTerm, blastOK := 0.0, false
	if in.blastRadiusOK && maxBlastOK && maxBlast > 0 {
		blastTerm, blastOK = in.blastRadius/maxBlast, true
	}
	cogTerm, cogOK := 0.0, false
	if in.cognitiveLoadOK && maxCognitiveOK && maxCognitive > 0 {
		cogTerm, cogOK = in.cognitiveLoad/maxCognitive, true
	}
	busTerm, busOK := 0.0, false
	if in.busFactorOK && maxBusFactorOK && maxBusFactor > 0 {
		busTerm, busOK = 1-in.busFactor/maxBusFactor, true
	}

	return weightedComposite(
		term{weight: 0.25, value: pagerankTerm, present: pagerankOK},
		term{weight: 0.20, value: blastTerm, present: blastOK},
		term{weight: 0.20, value: cogTerm, present: cogOK},
		term{weight: 0.20, value: in.instabilityFactor, present: in.trajectoryOK},
		term{weight: 0.15, value: busTerm, present: busOK},
	)
}

// wiringQuality computes 1 - (0.30·is_orphan + 0.25·stub_ratio +
// 0.25·phantom_import_count/max(import_count,1) +
// 0.20·broken_call_count/max(total_calls,1)) (§4.6). broken_call_count
// is always 0 until cross-language call resolution exists (§9), so its
// term always contributes 0 when present.
func wiringQuality(fs *store.FactStore, id store.EntityID) (float64, bool) {
	orphanVal, orphanOK := 0.0, false
	if b, ok := boolSignal(fs, id, "is_orphan"); ok {
		orphanOK = true
		if b {
			orphanVal = 1
		}
	}

	stubVal, stubOK := floatSignal(fs, id, "stub_ratio")

	phantomRatio, phantomOK := 0.0, false
	if phantoms, ok := floatSignal(fs, id, "phantom_import_count"); ok {
		importCount := 1.0
		if e, ok := fs.Entity(id); ok {
			if syn, ok := e.Metadata["syntax"].(*parse.FileSyntax); ok && len(syn.Imports) > 0 {
				importCount = float64(len(syn.Imports))
			}
		}
		phantomRatio = phantoms / importCount
		phantomOK = true
	}

	brokenRatio, brokenOK := 0.0, false
	if broken, ok := floatSignal(fs, id, "broken_call_count"); ok {
		brokenRatio = broken // denominator irrelevant while numerator is always 0
		brokenOK = true
	}

	badness, ok := weightedComposite(
		term{weight: 0.30, value: orphanVal, present: orphanOK},
		term{weight: 0.25, value: stubVal, present: stubOK},
		term{weight: 0.25, value: phantomRatio, present: phantomOK},
		term{weight: 0.20, value: brokenRatio, present: brokenOK},
	)
	if !ok {
		return 0, false
	}
	return 1 - badness, true
}

// healthScore combines risk_score, wiring_quality, and docstring_coverage
// into the file-scope health composite (§4.6 names the inputs but leaves
// the exact weights to the implementer; this codebase weights risk
// highest since it is the registry's own `requires` ordering).
func healthScore(fs *store.FactStore, id store.EntityID, risk float64, riskOK bool, wiring float64, wiringOK bool) (float64, bool) {
	docs, docsOK := floatSignal(fs, id, "docstring_coverage")
	return weightedComposite(
		term{weight: 0.5, value: 1 - risk, present: riskOK},
		term{weight: 0.3, value: wiring, present: wiringOK},
		term{weight: 0.2, value: docs, present: docsOK},
	)
}
