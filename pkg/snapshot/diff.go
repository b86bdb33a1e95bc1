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

package snapshot

import "sort"

// SnapshotDiff partitions two snapshots' finding sets by id (§4.8).
// Regressions/Worsening/Improving are sub-classifications of New and
// Persisting respectively — a finding can appear in exactly one of
// {New, Resolved, Persisting} and, if persisting, in at most one of
// {Worsening, Improving}; Regressions is the subset of New whose
// lifecycle Regression flag is set.
type SnapshotDiff struct {
	New          []LifecycleFinding
	Resolved     []LifecycleFinding
	Persisting   []LifecycleFinding
	Regressions  []LifecycleFinding
	Worsening    []LifecycleFinding
	Improving    []LifecycleFinding
	DebtVelocity int
}

// Diff compares prev and curr, both already lifecycle-annotated by the
// same History (so Trend/Regression reflect the full run history, not
// just these two snapshots).
func Diff(prev, curr *Snapshot) SnapshotDiff {
	prevByID := prev.byID()
	currByID := curr.byID()

	var d SnapshotDiff
	for id, f := range currByID {
		if _, ok := prevByID[id]; ok {
			d.Persisting = append(d.Persisting, f)
			switch f.Trend {
			case TrendWorsening:
				d.Worsening = append(d.Worsening, f)
			case TrendImproving:
				d.Improving = append(d.Improving, f)
			}
			continue
		}
		d.New = append(d.New, f)
		if f.Regression {
			d.Regressions = append(d.Regressions, f)
		}
	}
	for id, f := range prevByID {
		if _, ok := currByID[id]; !ok {
			d.Resolved = append(d.Resolved, f)
		}
	}

	sortByID(d.New)
	sortByID(d.Resolved)
	sortByID(d.Persisting)
	sortByID(d.Regressions)
	sortByID(d.Worsening)
	sortByID(d.Improving)

	d.DebtVelocity = len(d.New) - len(d.Resolved)
	return d
}

func sortByID(fs []LifecycleFinding) {
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].ID < fs[j].ID })
}
