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
	"sort"
	"testing"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

// WriteProjectTree materializes files into a fresh temp directory and
// returns its path. files maps a project-relative, forward-slash path to
// its content. Parent directories are created as needed. The directory
// is removed automatically when the test finishes.
//
// Example:
//
//	root := testing.WriteProjectTree(t, map[string]string{
//	    "main.go":        "package main\n\nfunc main() {}\n",
//	    "internal/a.go":  "package internal\n",
//	})
func WriteProjectTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for relPath, content := range files {
		full := filepath.Join(root, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", relPath, err)
		}
	}
	return root
}

// NewTestStore builds a FactStore against the default signal registry,
// failing the test if the embedded catalog fails to parse.
func NewTestStore(t *testing.T) *store.FactStore {
	t.Helper()
	reg, err := store.DefaultRegistry()
	if err != nil {
		t.Fatalf("failed to load signal registry: %v", err)
	}
	return store.New(reg, nil)
}

// SeedFile inserts a File entity (and its Codebase parent, if not already
// present) into fs and returns the File's EntityID. path is the
// project-relative, forward-slash key.
func SeedFile(t *testing.T, fs *store.FactStore, codebaseRoot, path string) store.EntityID {
	t.Helper()

	codebaseID := store.NewEntityID(store.KindCodebase, codebaseRoot)
	if _, ok := fs.Entity(codebaseID); !ok {
		fs.AddEntity(&store.Entity{ID: codebaseID, Kind: store.KindCodebase, Key: codebaseRoot})
	}

	fileID := store.NewEntityID(store.KindFile, path)
	fs.AddEntity(&store.Entity{ID: fileID, Kind: store.KindFile, Key: path, Parent: codebaseID})
	return fileID
}

// SeedSignals writes every entry of values onto entity, failing the test
// on the first registry rejection (unregistered name or kind mismatch —
// an out-of-domain numeric value is clamped, not rejected, and that is
// allowed in fixtures the same as in production).
func SeedSignals(t *testing.T, fs *store.FactStore, entity store.EntityID, values map[string]store.Value) {
	t.Helper()
	// Deterministic iteration so a fixture's error, if any, is always
	// reported for the same signal across runs.
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := fs.SetSignal(entity, name, values[name]); err != nil {
			t.Fatalf("failed to seed signal %q on %s: %v", name, entity, err)
		}
	}
}

// SeedImport adds a directed IMPORTS relation from one file to another,
// the fixture shorthand used throughout the IR3 graph tests.
func SeedImport(fs *store.FactStore, from, to store.EntityID) {
	fs.AddRelation(store.Relation{Type: store.RelImports, From: from, To: to, Weight: 1})
}
