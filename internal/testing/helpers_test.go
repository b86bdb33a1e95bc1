// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

func TestWriteProjectTree(t *testing.T) {
	root := WriteProjectTree(t, map[string]string{
		"main.go":       "package main\n\nfunc main() {}\n",
		"internal/a.go": "package internal\n",
	})

	main, err := os.ReadFile(filepath.Join(root, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "package main")

	nested, err := os.ReadFile(filepath.Join(root, "internal", "a.go"))
	require.NoError(t, err)
	assert.Contains(t, string(nested), "package internal")
}

func TestNewTestStore(t *testing.T) {
	fs := NewTestStore(t)
	require.NotNil(t, fs)
	require.NotNil(t, fs.Registry())
}

func TestSeedFile(t *testing.T) {
	fs := NewTestStore(t)

	fileID := SeedFile(t, fs, "/repo", "auth.go")

	entity, ok := fs.Entity(fileID)
	require.True(t, ok)
	assert.Equal(t, store.KindFile, entity.Kind)
	assert.Equal(t, "auth.go", entity.Key)

	codebaseID := store.NewEntityID(store.KindCodebase, "/repo")
	codebase, ok := fs.Entity(codebaseID)
	require.True(t, ok, "seeding a file must also seed its codebase parent")
	assert.Equal(t, entity.Parent, codebase.ID)
}

func TestSeedSignals(t *testing.T) {
	fs := NewTestStore(t)
	fileID := SeedFile(t, fs, "/repo", "main.go")

	SeedSignals(t, fs, fileID, map[string]store.Value{
		"loc":                store.IntValue(120),
		"is_orphan":          store.BoolValue(false),
		"docstring_coverage": store.FloatValue(0.75),
	})

	loc, ok := fs.Signal(fileID, "loc")
	require.True(t, ok)
	n, _ := loc.Int()
	assert.Equal(t, 120, n)
}

func TestSeedImport(t *testing.T) {
	fs := NewTestStore(t)
	a := SeedFile(t, fs, "/repo", "a.go")
	b := SeedFile(t, fs, "/repo", "b.go")

	SeedImport(fs, a, b)

	assert.True(t, fs.Has(store.RelImports, a, b))
	assert.False(t, fs.Has(store.RelImports, b, a))
}

func TestMultipleFilesIsolatedPerStore(t *testing.T) {
	fs1 := NewTestStore(t)
	SeedFile(t, fs1, "/repo", "a.go")

	fs2 := NewTestStore(t)
	assert.Equal(t, 0, fs2.CountEntities(store.KindFile), "a fresh store must start empty regardless of other tests' fixtures")
	assert.Equal(t, 1, fs1.CountEntities(store.KindFile))
}
