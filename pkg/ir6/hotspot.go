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

import (
	"sort"

	"github.com/kraklabs/shannon-insight/pkg/ir2"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// medianTotalChanges computes the median total_changes over every
// non-TEST file (§4.7's hotspot filter). Files with no total_changes
// signal (no VCS history, or never touched) are excluded from the
// sample rather than counted as zero.
func medianTotalChanges(fs *store.FactStore) (float64, bool) {
	var values []float64
	for _, f := range fs.EntitiesByKind(store.KindFile) {
		if f.MetaString("role") == string(ir2.RoleTest) {
			continue
		}
		v, ok := fs.Signal(f.ID, "total_changes")
		if !ok {
			continue
		}
		n, _ := v.Float()
		values = append(values, n)
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid], true
	}
	return (values[mid-1] + values[mid]) / 2, true
}

// isHotspot reports whether target's total_changes exceeds the
// codebase's median (§4.7: "total_changes(target) > median(total_changes
// over non-TEST files)"). A target with no total_changes signal, or a
// run with no temporal data at all, never passes the hotspot filter.
func isHotspot(fs *store.FactStore, target store.EntityID, median float64, medianOK bool) bool {
	if !medianOK {
		return false
	}
	v, ok := fs.Signal(target, "total_changes")
	if !ok {
		return false
	}
	n, _ := v.Float()
	return n > median
}
