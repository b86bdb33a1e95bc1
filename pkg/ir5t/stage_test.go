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

package ir5t

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shtesting "github.com/kraklabs/shannon-insight/internal/testing"
	"github.com/kraklabs/shannon-insight/pkg/ir0"
	"github.com/kraklabs/shannon-insight/pkg/ir1"
	"github.com/kraklabs/shannon-insight/pkg/ir2"
	"github.com/kraklabs/shannon-insight/pkg/ir3"
	"github.com/kraklabs/shannon-insight/pkg/ir4"
	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
	"github.com/kraklabs/shannon-insight/pkg/vcs"
)

func buildThroughArchitecture(t *testing.T, files map[string]string) *store.FactStore {
	t.Helper()
	root := shtesting.WriteProjectTree(t, files)
	fs := shtesting.NewTestStore(t)

	_, err := ir0.Discover(context.Background(), fs, nil, ir0.Config{Root: root})
	require.NoError(t, err)
	require.NoError(t, (&ir1.Stage{Root: root}).Run(context.Background(), fs, kernel.TierAbsolute))
	require.NoError(t, (&ir2.Stage{Root: root}).Run(context.Background(), fs, kernel.TierAbsolute))
	require.NoError(t, (&ir3.Stage{Root: root}).Run(context.Background(), fs, kernel.TierAbsolute))
	require.NoError(t, (&ir4.Stage{}).Run(context.Background(), fs, kernel.TierAbsolute))
	return fs
}

func TestStage_NoHistoryProviderSkipsAsDependencyMissing(t *testing.T) {
	fs := buildThroughArchitecture(t, map[string]string{"a.go": "package a\n"})
	err := (&Stage{}).Run(context.Background(), fs, kernel.TierAbsolute)
	require.Error(t, err)
	var se *kernel.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, kernel.StageDependencyMissing, se.Kind)
}

func TestStage_WritesPerFileChurnSignals(t *testing.T) {
	fs := buildThroughArchitecture(t, map[string]string{
		"auth.go":    "package a\n",
		"session.go": "package a\n",
	})
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []vcs.Commit{
		{SHA: "c1", Author: "alice@example.com", Timestamp: base, Message: "add auth", Files: []string{"auth.go"}},
		{SHA: "c2", Author: "bob@example.com", Timestamp: base.AddDate(0, 0, 10), Message: "fix auth bug", Files: []string{"auth.go", "session.go"}},
		{SHA: "c3", Author: "alice@example.com", Timestamp: base.AddDate(0, 0, 20), Message: "refactor session", Files: []string{"session.go"}},
	}
	fp := vcs.NewFixtureProvider(commits)

	require.NoError(t, (&Stage{History: fp}).Run(context.Background(), fs, kernel.TierAbsolute))

	authID := store.NewEntityID(store.KindFile, "auth.go")
	v, ok := fs.Signal(authID, "total_changes")
	require.True(t, ok)
	n, _ := v.Int()
	assert.Equal(t, 2, n)

	fr, ok := fs.Signal(authID, "fix_ratio")
	require.True(t, ok)
	f, _ := fr.Float()
	assert.InDelta(t, 0.5, f, 1e-9)

	bf, ok := fs.Signal(authID, "bus_factor")
	require.True(t, ok)
	bfv, _ := bf.Int()
	assert.GreaterOrEqual(t, bfv, 1)

	assert.True(t, fs.Has(store.RelCochangesWith, authID, store.NewEntityID(store.KindFile, "session.go")))
}

func TestStage_MaterializesAuthorAndCommitEntities(t *testing.T) {
	fs := buildThroughArchitecture(t, map[string]string{"a.go": "package a\n"})
	commits := []vcs.Commit{
		{SHA: "deadbeefcafef00d", Author: "Alice@Example.com", Timestamp: time.Now(), Message: "initial", Files: []string{"a.go"}},
	}
	fp := vcs.NewFixtureProvider(commits)
	require.NoError(t, (&Stage{History: fp}).Run(context.Background(), fs, kernel.TierAbsolute))

	authors := fs.EntitiesByKind(store.KindAuthor)
	require.Len(t, authors, 1)
	assert.Equal(t, "alice@example.com", authors[0].Key)

	commitsOut := fs.EntitiesByKind(store.KindCommit)
	require.Len(t, commitsOut, 1)
	assert.Equal(t, "deadbeefcafe", commitsOut[0].Key)
}

func TestStage_ModuleBusFactorAggregatesAcrossFiles(t *testing.T) {
	fs := buildThroughArchitecture(t, map[string]string{
		"servicea/a.go": "package servicea\n",
		"servicea/b.go": "package servicea\n",
	})
	now := time.Now()
	commits := []vcs.Commit{
		{SHA: "c1", Author: "alice@example.com", Timestamp: now, Message: "a", Files: []string{"servicea/a.go"}},
		{SHA: "c2", Author: "bob@example.com", Timestamp: now.Add(time.Hour), Message: "b", Files: []string{"servicea/b.go"}},
	}
	fp := vcs.NewFixtureProvider(commits)
	require.NoError(t, (&Stage{History: fp}).Run(context.Background(), fs, kernel.TierAbsolute))

	modules := fs.EntitiesByKind(store.KindModule)
	require.Len(t, modules, 1)
	v, ok := fs.Signal(modules[0].ID, "module_bus_factor")
	require.True(t, ok)
	n, _ := v.Int()
	assert.Equal(t, 2, n, "two equally-weighted authors across the module's files yields a bus factor of 2")
}

func TestLift_MatchesAssociationRuleDefinition(t *testing.T) {
	// 10 commits, A in 5, B in 5, co-occur in all 5: independence would
	// predict 5*5/10=2.5 co-occurrences, we observed 5, lift=2.0.
	assert.InDelta(t, 2.0, lift(5, 5, 5, 10), 1e-9)
}

func TestBusFactor_SingleAuthorIsOne(t *testing.T) {
	assert.Equal(t, 1, busFactor(map[string]int{"alice": 10}))
}

func TestBusFactor_TwoEvenAuthorsIsTwo(t *testing.T) {
	assert.Equal(t, 2, busFactor(map[string]int{"alice": 5, "bob": 5}))
}
