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
	"fmt"
	"math"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/ir6"
)

// Trend classifies a finding's severity movement between consecutive
// snapshots it appeared in (§4.8: "by polarity-aware severity delta").
// Finding.Severity is already always-worse-is-higher by construction
// (adjustedSeverity never flips polarity), so "polarity-aware" reduces to
// comparing the raw delta's sign.
type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendStable    Trend = "STABLE"
	TrendWorsening Trend = "WORSENING"
)

// trendEpsilon absorbs floating-point noise so two runs that recompute
// the same severity don't register as movement.
const trendEpsilon = 1e-9

func trendFor(prevSeverity float64, hadPrior bool, currSeverity float64) Trend {
	if !hadPrior {
		return TrendStable
	}
	delta := currSeverity - prevSeverity
	switch {
	case delta > trendEpsilon:
		return TrendWorsening
	case delta < -trendEpsilon:
		return TrendImproving
	default:
		return TrendStable
	}
}

// LifecycleFinding is an ir6.Finding enriched with the lifecycle fields a
// History accumulates across snapshots.
type LifecycleFinding struct {
	Finding          ir6.Finding
	ID               string
	FirstSeen        time.Time
	PersistenceCount int
	Trend            Trend
	Regression       bool
}

// chronicThreshold is the "present in >=3 snapshots" bound (§4.8) that
// triggers the CHRONIC_PROBLEM amplifier.
const chronicThreshold = 3

// chronicProblem wraps a base finding that has crossed chronicThreshold
// into a synthetic CHRONIC_PROBLEM finding carrying the amplified
// severity, the base's targets and evidence, plus a persistence_count
// evidence item.
func chronicProblem(base LifecycleFinding) LifecycleFinding {
	amplifier := clampF(float64(base.PersistenceCount)/10, 0.3, 1.0)
	severity := math.Min(1.0, base.Finding.Severity*1.25*amplifier)

	evidence := append([]ir6.Evidence(nil), base.Finding.Evidence...)
	evidence = append(evidence, ir6.Evidence{
		IRSource:    ir6.IRSourceSnapshot,
		Signal:      "persistence_count",
		Value:       float64(base.PersistenceCount),
		Description: "consecutive snapshots this finding has persisted",
	})

	wrapped := ir6.Finding{
		Type:        "CHRONIC_PROBLEM",
		Scope:       base.Finding.Scope,
		Category:    ir6.CategoryLifecycle,
		Targets:     append([]string(nil), base.Finding.Targets...),
		Severity:    severity,
		Confidence:  base.Finding.Confidence,
		Evidence:    evidence,
		Remediation: base.Finding.Remediation,
		Effort:      base.Finding.Effort,
		Hotspot:     base.Finding.Hotspot,
	}

	return LifecycleFinding{
		Finding:          wrapped,
		ID:               fmt.Sprintf("chronic_problem:%s", base.ID),
		FirstSeen:        base.FirstSeen,
		PersistenceCount: base.PersistenceCount,
		Trend:            base.Trend,
		Regression:       false,
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
