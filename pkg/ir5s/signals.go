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

func floatSignal(fs *store.FactStore, id store.EntityID, name string) (float64, bool) {
	v, ok := fs.Signal(id, name)
	if !ok {
		return 0, false
	}
	return v.Float()
}

func boolSignal(fs *store.FactStore, id store.EntityID, name string) (bool, bool) {
	v, ok := fs.Signal(id, name)
	if !ok {
		return false, false
	}
	return v.Bool()
}

// corpusMax returns the largest value of signal across every entity of
// kind that carries it, used by the health Laplacian's absolute
// (divide-by-corpus-max) normalization (§4.6).
func corpusMax(fs *store.FactStore, kind store.Kind, signal string) (float64, bool) {
	max := 0.0
	found := false
	for _, e := range fs.EntitiesByKind(kind) {
		v, ok := floatSignal(fs, e.ID, signal)
		if !ok {
			continue
		}
		if !found || v > max {
			max = v
		}
		found = true
	}
	return max, found
}

// isChurningOrSpiking resolves the spec's `trajectory ∈ {CHURNING,
// SPIKING}` categorical test against the registry's continuous float
// trajectory signal. signals.yaml declares trajectory as a continuous
// [-1,1] value with no categorical variant, so this codebase treats any
// file whose churn slope leans positive (more recent activity than
// historical) as churning/spiking; 0.2 is an implementer-chosen cutoff,
// not one the spec names.
func isChurningOrSpiking(trajectory float64) bool {
	return trajectory >= 0.2
}
