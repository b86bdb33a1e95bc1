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
	"github.com/kraklabs/shannon-insight/pkg/ir2"
	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

func TestHiddenCoupling_MatchesHighLiftNoImport(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := shtesting.SeedFile(t, fs, "/repo", "a.go")
	b := shtesting.SeedFile(t, fs, "/repo", "b.go")
	fs.AddRelation(store.Relation{
		Type: store.RelCochangesWith, From: a, To: b, Weight: 3.5,
		Metadata: map[string]any{"meta": store.CochangeMeta{Count: 5, Confidence: 0.7}},
	})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := hiddenCoupling().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"a.go", "b.go"}, findings[0].Targets)
	// margins: lift>=2.0 threshold is boolean-like (t>=1) => 1.0;
	// confidence (0.7-0.5)/(1-0.5) => 0.4; count and no-imports => 1.0 each.
	assert.InDelta(t, 0.85, findings[0].Confidence, 1e-9)
}

func TestHiddenCoupling_NoMatchWhenFilesAlreadyImport(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := shtesting.SeedFile(t, fs, "/repo", "a.go")
	b := shtesting.SeedFile(t, fs, "/repo", "b.go")
	shtesting.SeedImport(fs, a, b)
	fs.AddRelation(store.Relation{
		Type: store.RelCochangesWith, From: a, To: b, Weight: 3.5,
		Metadata: map[string]any{"meta": store.CochangeMeta{Count: 5, Confidence: 0.7}},
	})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	assert.Empty(t, hiddenCoupling().evaluate(ctx))
}

func TestDeadDependency_MatchesImportWithNoCochange(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := shtesting.SeedFile(t, fs, "/repo", "a.go")
	b := shtesting.SeedFile(t, fs, "/repo", "b.go")
	shtesting.SeedImport(fs, a, b)
	shtesting.SeedSignals(t, fs, a, map[string]store.Value{"total_changes": store.IntValue(50)})
	shtesting.SeedSignals(t, fs, b, map[string]store.Value{"total_changes": store.IntValue(60)})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := deadDependency().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, "DEAD_DEPENDENCY", findings[0].Type)
}

func TestDeadDependency_NoMatchBelowChangeThreshold(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := shtesting.SeedFile(t, fs, "/repo", "a.go")
	b := shtesting.SeedFile(t, fs, "/repo", "b.go")
	shtesting.SeedImport(fs, a, b)
	shtesting.SeedSignals(t, fs, a, map[string]store.Value{"total_changes": store.IntValue(10)})
	shtesting.SeedSignals(t, fs, b, map[string]store.Value{"total_changes": store.IntValue(60)})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	assert.Empty(t, deadDependency().evaluate(ctx))
}

func TestCopyPasteClone_MatchesClonedFromRelation(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := shtesting.SeedFile(t, fs, "/repo", "a.go")
	b := shtesting.SeedFile(t, fs, "/repo", "b.go")
	fs.AddRelation(store.Relation{Type: store.RelClonedFrom, From: a, To: b, Weight: 1 - 0.1})

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := copyPasteClone().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.InDelta(t, 0.1, findings[0].Evidence[0].Value, 1e-9)
}

func TestAccidentalCoupling_MatchesImportWithNoSharedConcepts(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := shtesting.SeedFile(t, fs, "/repo", "a.go")
	b := shtesting.SeedFile(t, fs, "/repo", "b.go")
	shtesting.SeedImport(fs, a, b)
	if ea, ok := fs.Entity(a); ok {
		ea.Metadata = map[string]any{"concepts": []ir2.Concept{{Topic: "parser"}, {Topic: "lexer"}}}
	}
	if eb, ok := fs.Entity(b); ok {
		eb.Metadata = map[string]any{"concepts": []ir2.Concept{{Topic: "database"}, {Topic: "migration"}}}
	}

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	findings := accidentalCoupling().evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, "ACCIDENTAL_COUPLING", findings[0].Type)
}

func TestAccidentalCoupling_NoMatchWithSharedConcepts(t *testing.T) {
	fs := shtesting.NewTestStore(t)
	a := shtesting.SeedFile(t, fs, "/repo", "a.go")
	b := shtesting.SeedFile(t, fs, "/repo", "b.go")
	shtesting.SeedImport(fs, a, b)
	if ea, ok := fs.Entity(a); ok {
		ea.Metadata = map[string]any{"concepts": []ir2.Concept{{Topic: "parser"}, {Topic: "lexer"}}}
	}
	if eb, ok := fs.Entity(b); ok {
		eb.Metadata = map[string]any{"concepts": []ir2.Concept{{Topic: "parser"}, {Topic: "token"}}}
	}

	ctx := newEvalContext(fs, kernel.TierFull, nil)
	assert.Empty(t, accidentalCoupling().evaluate(ctx))
}
