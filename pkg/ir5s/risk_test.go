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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shtesting "github.com/kraklabs/shannon-insight/internal/testing"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

func TestRiskScore_WithinUnitIntervalGivenAllInputs(t *testing.T) {
	in := fileRiskInputs{
		pagerankOK: true, blastRadiusOK: true, cognitiveLoadOK: true,
		trajectoryOK: true, instabilityFactor: 1.0,
		busFactor: 1, busFactorOK: true,
	}
	score, ok := riskScore(in, 0.9, 0.8, 0.7, 1, true, true, true, 4, true)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestRiskScore_DropsMissingBusFactorTerm(t *testing.T) {
	in := fileRiskInputs{trajectoryOK: true, instabilityFactor: 0.3}
	_, ok := riskScore(in, 0, 0, 0, false, false, false, 0, false)
	assert.True(t, ok, "the trajectory term alone is enough to produce a score")
}

func TestRiskScore_NoInputsIsNotOK(t *testing.T) {
	_, ok := riskScore(fileRiskInputs{}, 0, 0, 0, false, false, false, 0, false)
	assert.False(t, ok)
}

func TestRawRisk_ZeroMaxDisablesTerm(t *testing.T) {
	in := fileRiskInputs{pagerank: 5, pagerankOK: true, trajectoryOK: true, instabilityFactor: 1.0}
	score, ok := rawRisk(in, 0, 0, 0, 0, true, false, false, false)
	require.True(t, ok, "instability term still present even though pagerank's max is zero")
	assert.InDelta(t, 1.0, score, 1e-9, "only the instability term contributes, so it dominates the renormalized mean")
}

func TestWiringQuality_PenalizesOrphans(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	id := store.NewEntityID(store.KindFile, "orphan.go")
	fs.AddEntity(&store.Entity{ID: id, Kind: store.KindFile, Key: "orphan.go"})
	require.NoError(t, fs.SetSignal(id, "is_orphan", store.BoolValue(true)))

	quality, ok := wiringQuality(fs, id)
	require.True(t, ok)
	assert.Less(t, quality, 1.0)
}

func TestWiringQuality_NoSignalsIsNotOK(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	id := store.NewEntityID(store.KindFile, "bare.go")
	fs.AddEntity(&store.Entity{ID: id, Kind: store.KindFile, Key: "bare.go"})

	_, ok := wiringQuality(fs, id)
	assert.False(t, ok)
}

func TestHealthScore_HighRiskLowersHealth(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	id := store.NewEntityID(store.KindFile, "f.go")
	fs.AddEntity(&store.Entity{ID: id, Kind: store.KindFile, Key: "f.go"})

	healthy, ok := healthScore(fs, id, 0.1, true, 0.9, true)
	require.True(t, ok)
	risky, ok := healthScore(fs, id, 0.9, true, 0.9, true)
	require.True(t, ok)
	assert.Greater(t, healthy, risky)
}
