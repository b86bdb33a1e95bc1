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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/shannon-insight/pkg/ir6"
)

func namedFinding(typ string, target string, severity float64) ir6.Finding {
	return ir6.Finding{Type: typ, Scope: ir6.ScopeFile, Targets: []string{target}, Severity: severity}
}

func TestDiff_PartitionsNewResolvedAndPersisting(t *testing.T) {
	h := NewHistory()
	t0 := time.Now()
	prev := h.Ingest([]ir6.Finding{
		namedFinding("GOD_FILE", "a.go", 0.8),
		namedFinding("ORPHAN_CODE", "b.go", 0.5),
	}, t0, "sha1", "cfg")

	curr := h.Ingest([]ir6.Finding{
		namedFinding("GOD_FILE", "a.go", 0.8),
		namedFinding("WEAK_LINK", "c.go", 0.6),
	}, t0.Add(time.Hour), "sha2", "cfg")

	d := Diff(prev, curr)
	require.Len(t, d.New, 1)
	assert.Equal(t, "WEAK_LINK", d.New[0].Finding.Type)
	require.Len(t, d.Resolved, 1)
	assert.Equal(t, "ORPHAN_CODE", d.Resolved[0].Finding.Type)
	require.Len(t, d.Persisting, 1)
	assert.Equal(t, "GOD_FILE", d.Persisting[0].Finding.Type)
	assert.Equal(t, 0, d.DebtVelocity)
}

func TestDiff_DebtVelocityIsNewMinusResolved(t *testing.T) {
	h := NewHistory()
	t0 := time.Now()
	prev := h.Ingest([]ir6.Finding{namedFinding("GOD_FILE", "a.go", 0.8)}, t0, "sha1", "cfg")
	curr := h.Ingest([]ir6.Finding{
		namedFinding("GOD_FILE", "a.go", 0.8),
		namedFinding("WEAK_LINK", "b.go", 0.6),
		namedFinding("HOLLOW_CODE", "c.go", 0.5),
	}, t0.Add(time.Hour), "sha2", "cfg")

	d := Diff(prev, curr)
	assert.Equal(t, 2, d.DebtVelocity)
}

func TestDiff_WorseningAndImprovingClassifyPersistingByTrend(t *testing.T) {
	h := NewHistory()
	t0 := time.Now()
	prev := h.Ingest([]ir6.Finding{
		namedFinding("GOD_FILE", "a.go", 0.5),
		namedFinding("WEAK_LINK", "b.go", 0.5),
	}, t0, "sha1", "cfg")
	curr := h.Ingest([]ir6.Finding{
		namedFinding("GOD_FILE", "a.go", 0.8), // worsened
		namedFinding("WEAK_LINK", "b.go", 0.2), // improved
	}, t0.Add(time.Hour), "sha2", "cfg")

	d := Diff(prev, curr)
	require.Len(t, d.Worsening, 1)
	assert.Equal(t, "GOD_FILE", d.Worsening[0].Finding.Type)
	require.Len(t, d.Improving, 1)
	assert.Equal(t, "WEAK_LINK", d.Improving[0].Finding.Type)
}

func TestDiff_RegressionsIsSubsetOfNewFlaggedByHistory(t *testing.T) {
	h := NewHistory()
	t0 := time.Now()
	h.Ingest([]ir6.Finding{namedFinding("GOD_FILE", "a.go", 0.7)}, t0, "sha1", "cfg")
	prev := h.Ingest(nil, t0.Add(time.Hour), "sha2", "cfg")
	curr := h.Ingest([]ir6.Finding{namedFinding("GOD_FILE", "a.go", 0.7)}, t0.Add(2*time.Hour), "sha3", "cfg")

	d := Diff(prev, curr)
	require.Len(t, d.New, 1)
	require.Len(t, d.Regressions, 1)
	assert.Equal(t, "GOD_FILE", d.Regressions[0].Finding.Type)
}
