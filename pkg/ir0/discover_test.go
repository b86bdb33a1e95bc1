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

package ir0

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shtesting "github.com/kraklabs/shannon-insight/internal/testing"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

func writeTree(t *testing.T) string {
	t.Helper()
	return shtesting.WriteProjectTree(t, map[string]string{
		"main.go":              "package main\n\nfunc main() {}\n",
		"pkg/widget/widget.go": "package widget\n\nfunc New() *Widget { return &Widget{} }\n",
		"vendor/dep/dep.go":    "package dep\n",
		".git/HEAD":            "ref: refs/heads/main\n",
		"README.md":            "# sample\n",
		"bin/tool":             string([]byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01, 0x02}),
	})
}

func TestDiscover_SkipsExcludedAndBinaryFiles(t *testing.T) {
	root := writeTree(t)
	fs := shtesting.NewTestStore(t)

	result, err := Discover(context.Background(), fs, nil, Config{Root: root})
	require.NoError(t, err)

	var paths []string
	for _, id := range result.Files {
		e, ok := fs.Entity(id)
		require.True(t, ok)
		paths = append(paths, e.Key)
	}

	assert.Contains(t, paths, "main.go")
	assert.Contains(t, paths, "pkg/widget/widget.go")
	assert.Contains(t, paths, "README.md")
	assert.NotContains(t, paths, "vendor/dep/dep.go")
	assert.NotContains(t, paths, ".git/HEAD")
	assert.NotContains(t, paths, "bin/tool")

	assert.Greater(t, result.SkipReasons["excluded"], 0)
	assert.Greater(t, result.SkipReasons["binary"], 0)
}

func TestDiscover_SetsLanguageAndContentHashMetadata(t *testing.T) {
	root := writeTree(t)
	fs := shtesting.NewTestStore(t)

	result, err := Discover(context.Background(), fs, nil, Config{Root: root})
	require.NoError(t, err)

	var mainFile *store.Entity
	for _, id := range result.Files {
		e, _ := fs.Entity(id)
		if e.Key == "main.go" {
			mainFile = e
		}
	}
	require.NotNil(t, mainFile)
	assert.Equal(t, "go", mainFile.MetaString("language"))
	assert.NotEmpty(t, mainFile.Metadata["content_hash"])
	assert.Equal(t, store.KindFile, mainFile.Kind)
}

func TestDiscover_SkipsOversizedFiles(t *testing.T) {
	root := writeTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "huge.go"), make([]byte, 4096), 0o644))
	fs := shtesting.NewTestStore(t)

	result, err := Discover(context.Background(), fs, nil, Config{Root: root, MaxFileSize: 1024})
	require.NoError(t, err)

	for _, id := range result.Files {
		e, _ := fs.Entity(id)
		assert.NotEqual(t, "huge.go", e.Key)
	}
	assert.Greater(t, result.SkipReasons["too_large"], 0)
}

func TestCountFiles_MatchesDiscoverFileCount(t *testing.T) {
	root := writeTree(t)
	fs := shtesting.NewTestStore(t)

	n, err := CountFiles(context.Background(), Config{Root: root})
	require.NoError(t, err)

	result, err := Discover(context.Background(), fs, nil, Config{Root: root})
	require.NoError(t, err)

	assert.Equal(t, len(result.Files), n)
}

func TestDiscover_CreatesCodebaseEntity(t *testing.T) {
	root := writeTree(t)
	fs := shtesting.NewTestStore(t)

	result, err := Discover(context.Background(), fs, nil, Config{Root: root})
	require.NoError(t, err)

	codebase, ok := fs.Entity(result.Codebase)
	require.True(t, ok)
	assert.Equal(t, store.KindCodebase, codebase.Kind)

	for _, id := range result.Files {
		e, _ := fs.Entity(id)
		assert.Equal(t, result.Codebase, e.Parent)
	}
}
