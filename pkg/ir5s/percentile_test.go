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

func TestPercentileRanks_IsMonotoneNonDecreasing(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	ids := make([]store.EntityID, 5)
	for i := 0; i < 5; i++ {
		ids[i] = store.NewEntityID(store.KindFile, string(rune('a'+i))+".go")
		fs.AddEntity(&store.Entity{ID: ids[i], Kind: store.KindFile, Key: string(rune('a' + i))})
		require.NoError(t, fs.SetSignal(ids[i], "loc", store.IntValue(i*10)))
	}

	ranks := PercentileRanks(fs, store.KindFile, "loc")
	require.Len(t, ranks, 5)
	for i := 0; i < 4; i++ {
		assert.LessOrEqual(t, ranks[ids[i]], ranks[ids[i+1]])
	}
	assert.InDelta(t, 1.0, ranks[ids[4]], 1e-9, "the maximum value sees every other value ≤ it")
}

func TestPercentileRanks_TiedValuesShareAPercentile(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := store.NewEntityID(store.KindFile, "a.go")
	b := store.NewEntityID(store.KindFile, "b.go")
	fs.AddEntity(&store.Entity{ID: a, Kind: store.KindFile, Key: "a.go"})
	fs.AddEntity(&store.Entity{ID: b, Kind: store.KindFile, Key: "b.go"})
	require.NoError(t, fs.SetSignal(a, "loc", store.IntValue(10)))
	require.NoError(t, fs.SetSignal(b, "loc", store.IntValue(10)))

	ranks := PercentileRanks(fs, store.KindFile, "loc")
	assert.Equal(t, ranks[a], ranks[b])
}

func TestPercentileRanks_ZeroVarianceYieldsOneHalf(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	ids := make([]store.EntityID, 3)
	for i := range ids {
		ids[i] = store.NewEntityID(store.KindFile, string(rune('a'+i)))
		fs.AddEntity(&store.Entity{ID: ids[i], Kind: store.KindFile, Key: string(rune('a' + i))})
		require.NoError(t, fs.SetSignal(ids[i], "loc", store.IntValue(42)))
	}
	ranks := PercentileRanks(fs, store.KindFile, "loc")
	for _, id := range ids {
		assert.Equal(t, 0.5, ranks[id])
	}
}

func TestBayesianPercentileRanks_PullsSmallSamplesTowardTheMiddle(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := store.NewEntityID(store.KindFile, "a.go")
	b := store.NewEntityID(store.KindFile, "b.go")
	fs.AddEntity(&store.Entity{ID: a, Kind: store.KindFile, Key: "a.go"})
	fs.AddEntity(&store.Entity{ID: b, Kind: store.KindFile, Key: "b.go"})
	require.NoError(t, fs.SetSignal(a, "loc", store.IntValue(100)))
	require.NoError(t, fs.SetSignal(b, "loc", store.IntValue(10)))

	full := PercentileRanks(fs, store.KindFile, "loc")
	bayesian := BayesianPercentileRanks(fs, store.KindFile, "loc", 1, 1)
	assert.Equal(t, 1.0, full[a])
	assert.Less(t, bayesian[a], full[a], "a two-sample posterior pulls away from the empirical extreme")
}
