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

// HealthLaplacian computes Δh(f) = raw_risk(f) − mean(raw_risk(n) for n
// in N(f)) for every file, where N(f) is the undirected union of
// incoming and outgoing IMPORTS neighbors (§4.6). Orphans (|N(f)|=0)
// yield Δh=0. The result is not a registered signal — signals.yaml has
// no entry for it — so it is exposed here for direct consumption by the
// WEAK_LINK finder rather than persisted via SetSignal.
func HealthLaplacian(fs *store.FactStore) map[store.EntityID]float64 {
	files := fs.EntitiesByKind(store.KindFile)

	maxPagerank, maxPagerankOK := corpusMax(fs, store.KindFile, "pagerank")
	maxBlast, maxBlastOK := corpusMax(fs, store.KindFile, "blast_radius_size")
	maxCognitive, maxCognitiveOK := corpusMax(fs, store.KindFile, "cognitive_load")
	maxBusFactor, maxBusFactorOK := corpusMax(fs, store.KindFile, "bus_factor")

	raw := make(map[store.EntityID]float64, len(files))
	rawOK := make(map[store.EntityID]bool, len(files))
	neighbors := make(map[store.EntityID][]store.EntityID, len(files))

	for _, f := range files {
		in := readFileRiskInputs(fs, f.ID)
		v, ok := rawRisk(in, maxPagerank, maxBlast, maxCognitive, maxBusFactor, maxPagerankOK, maxBlastOK, maxCognitiveOK, maxBusFactorOK)
		raw[f.ID] = v
		rawOK[f.ID] = ok

		neighborSet := make(map[store.EntityID]bool)
		for _, r := range fs.Outgoing(f.ID, store.RelImports) {
			neighborSet[r.To] = true
		}
		for _, r := range fs.Incoming(f.ID, store.RelImports) {
			neighborSet[r.From] = true
		}
		for n := range neighborSet {
			neighbors[f.ID] = append(neighbors[f.ID], n)
		}
	}

	out := make(map[store.EntityID]float64, len(files))
	for _, f := range files {
		ns := neighbors[f.ID]
		if len(ns) == 0 || !rawOK[f.ID] {
			out[f.ID] = 0
			continue
		}
		var sum float64
		var count int
		for _, n := range ns {
			if rawOK[n] {
				sum += raw[n]
				count++
			}
		}
		if count == 0 {
			out[f.ID] = 0
			continue
		}
		out[f.ID] = raw[f.ID] - sum/float64(count)
	}
	return out
}
