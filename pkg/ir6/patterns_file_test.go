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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shtesting "github.com/kraklabs/shannon-insight/internal/testing"
	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

func TestHighRiskHub_MatchesHighCentralityAndChurn(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	hub := shtesting.SeedFile(t, fs, "/repo", "hub.go")
	shtesting.SeedSignals(t, fs, hub, map[string]store.Value{
		"pagerank":      store.FloatValue(0.95),
		"cognitive_load": store.FloatValue(0.1),
		"trajectory":    store.FloatValue(0.5),
	})
	for i := 0; i < 10; i++ {
		other := shtesting.SeedFile(t, fs, "/repo", "plain"+string(rune('a'+i))+".go")
		shtesting.SeedSignals(t, fs, other, map[string]store.Value{"pagerank": store.FloatValue(0.01)})
	}

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := highRiskHub().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, "HIGH_RISK_HUB", findings[0].Type)
	assert.Equal(t, []string{"hub.go"}, findings[0].Targets)
}

func TestHighRiskHub_NoMatchWithoutVolatility(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	hub := shtesting.SeedFile(t, fs, "/repo", "hub.go")
	shtesting.SeedSignals(t, fs, hub, map[string]store.Value{
		"pagerank":      store.FloatValue(0.95),
		"cognitive_load": store.FloatValue(0.01),
		"trajectory":    store.FloatValue(-0.9),
	})
	for i := 0; i < 10; i++ {
		other := shtesting.SeedFile(t, fs, "/repo", "plain"+string(rune('a'+i))+".go")
		shtesting.SeedSignals(t, fs, other, map[string]store.Value{
			"pagerank":       store.FloatValue(0.01),
			"cognitive_load": store.FloatValue(0.01),
		})
	}

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := highRiskHub().evaluate(ctx)
	assert.Empty(t, findings)
}

func TestGodFile_MatchesLowCoherenceHighLoad(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	f := shtesting.SeedFile(t, fs, "/repo", "god.go")
	shtesting.SeedSignals(t, fs, f, map[string]store.Value{
		"cognitive_load":      store.FloatValue(0.99),
		"semantic_coherence":  store.FloatValue(0.05),
		"function_count":      store.IntValue(12),
		"total_changes":       store.IntValue(3),
	})
	for i := 0; i < 5; i++ {
		other := shtesting.SeedFile(t, fs, "/repo", "x"+string(rune('a'+i))+".go")
		shtesting.SeedSignals(t, fs, other, map[string]store.Value{
			"cognitive_load":     store.FloatValue(0.1),
			"semantic_coherence": store.FloatValue(0.9),
		})
	}

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := godFile().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Greater(t, findings[0].Confidence, 0.5)
}

func TestOrphanCode_MatchesIsOrphanSignal(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	f := shtesting.SeedFile(t, fs, "/repo", "orphan.go")
	shtesting.SeedSignals(t, fs, f, map[string]store.Value{"is_orphan": store.BoolValue(true)})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := orphanCode().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, "ORPHAN_CODE", findings[0].Type)
}

func TestOrphanCode_NoMatchWhenNotOrphan(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	f := shtesting.SeedFile(t, fs, "/repo", "wired.go")
	shtesting.SeedSignals(t, fs, f, map[string]store.Value{"is_orphan": store.BoolValue(false)})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	assert.Empty(t, orphanCode().evaluate(ctx))
}

func TestHollowCode_MatchesHighStubRatio(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	f := shtesting.SeedFile(t, fs, "/repo", "stub.go")
	shtesting.SeedSignals(t, fs, f, map[string]store.Value{
		"stub_ratio":     store.FloatValue(0.8),
		"function_count": store.IntValue(5),
		"impl_gini":      store.FloatValue(0.72),
	})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := hollowCode().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Greater(t, findings[0].Confidence, 0.5)
}

func TestWeakLink_MatchesHighLaplacianAndAboveMedianChurn(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	weak := shtesting.SeedFile(t, fs, "/repo", "weak.go")
	neighbor := shtesting.SeedFile(t, fs, "/repo", "neighbor.go")
	shtesting.SeedImport(fs, weak, neighbor)
	shtesting.SeedSignals(t, fs, weak, map[string]store.Value{
		"pagerank":        store.FloatValue(0.9),
		"blast_radius_size": store.IntValue(90),
		"cognitive_load":  store.FloatValue(0.9),
		"bus_factor":      store.IntValue(1),
		"total_changes":   store.IntValue(100),
	})
	shtesting.SeedSignals(t, fs, neighbor, map[string]store.Value{
		"pagerank":          store.FloatValue(0.01),
		"blast_radius_size": store.IntValue(1),
		"cognitive_load":    store.FloatValue(0.01),
		"bus_factor":        store.IntValue(5),
		"total_changes":     store.IntValue(1),
	})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := weakLink().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"weak.go"}, findings[0].Targets)
}
