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

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kraklabs/shannon-insight/pkg/ir6"
)

// record is what History remembers about a finding id between runs: just
// enough to compute the next snapshot's lifecycle fields.
type record struct {
	firstSeen        time.Time
	lastSeverity     float64
	persistenceCount int
	lastIngestIndex  int
}

// History tracks finding identities across an arbitrary number of
// snapshots and derives each one's lifecycle fields (§4.8) on ingest. It
// is the only stateful type in this package; callers persist it (or
// reconstruct it from stored snapshots) across analysis runs.
type History struct {
	records     map[string]*record
	ingestIndex int
	last        *Snapshot
}

// NewHistory returns an empty History, as if no prior snapshot exists.
func NewHistory() *History {
	return &History{records: make(map[string]*record)}
}

// Last returns the most recently ingested Snapshot, or nil if Ingest has
// never been called.
func (h *History) Last() *Snapshot {
	return h.last
}

// Ingest folds a fresh batch of IR6 findings into the history, producing
// a Snapshot whose Findings carry lifecycle fields plus any synthesized
// CHRONIC_PROBLEM findings. findings should already be rename-retargeted
// (see RetargetRenames) before being passed in.
func (h *History) Ingest(findings []ir6.Finding, timestamp time.Time, commitSHA, configHash string) *Snapshot {
	index := h.ingestIndex
	h.ingestIndex++

	lifecycle := make([]LifecycleFinding, 0, len(findings))
	for _, f := range findings {
		id := Identity(f)
		prev, hadPrior := h.records[id]

		firstSeen := timestamp
		persistence := 1
		regression := false
		trend := TrendStable
		if hadPrior {
			firstSeen = prev.firstSeen
			trend = trendFor(prev.lastSeverity, true, f.Severity)
			if prev.lastIngestIndex == index-1 {
				persistence = prev.persistenceCount + 1
			} else {
				// Seen before, but not in the immediately preceding
				// snapshot: it disappeared and came back (§4.8 regression).
				persistence = 1
				regression = true
			}
		}

		lifecycle = append(lifecycle, LifecycleFinding{
			Finding:          f,
			ID:               id,
			FirstSeen:        firstSeen,
			PersistenceCount: persistence,
			Trend:            trend,
			Regression:       regression,
		})

		h.records[id] = &record{
			firstSeen:        firstSeen,
			lastSeverity:     f.Severity,
			persistenceCount: persistence,
			lastIngestIndex:  index,
		}
	}

	withChronic := make([]LifecycleFinding, 0, len(lifecycle))
	for _, lf := range lifecycle {
		withChronic = append(withChronic, lf)
		if lf.PersistenceCount >= chronicThreshold {
			withChronic = append(withChronic, chronicProblem(lf))
		}
	}
	sort.SliceStable(withChronic, func(i, j int) bool { return withChronic[i].ID < withChronic[j].ID })

	snap := &Snapshot{
		RunID:      uuid.NewString(),
		Timestamp:  timestamp,
		CommitSHA:  commitSHA,
		ConfigHash: configHash,
		Findings:   withChronic,
	}
	h.last = snap
	return snap
}
