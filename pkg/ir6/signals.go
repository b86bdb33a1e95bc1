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

// evidence builds one Evidence item, attaching a percentile when pctls
// carries one for id.
func evidence(src IRSource, signal string, value float64, pctls map[store.EntityID]float64, id store.EntityID, desc string) Evidence {
	e := Evidence{IRSource: src, Signal: signal, Value: value, Description: desc}
	if pctls != nil {
		if p, ok := pctls[id]; ok {
			pp := p
			e.Percentile = &pp
		}
	}
	return e
}

// isChurningOrSpiking resolves the spec's `trajectory ∈ {CHURNING,
// SPIKING}` categorical test against the registry's continuous float
// trajectory signal, matching the cutoff the IR5s risk composite uses.
func isChurningOrSpiking(trajectory float64) bool {
	return trajectory >= 0.2
}
