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

// Package testing provides test helpers for Shannon Insight integration
// tests.
//
// It wraps two kinds of fixtures: synthetic project trees (for stages
// that read from disk, via WriteProjectTree) and pre-seeded fact stores
// (for stages that read from the store, via NewTestStore plus the
// Seed* helpers).
//
// # Quick Start
//
//	func TestMyStage(t *testing.T) {
//	    fs := testing.NewTestStore(t)
//	    a := testing.SeedFile(t, fs, "/repo", "a.go")
//	    b := testing.SeedFile(t, fs, "/repo", "b.go")
//	    testing.SeedImport(fs, a, b)
//	    testing.SeedSignals(t, fs, a, map[string]store.Value{
//	        "loc": store.IntValue(42),
//	    })
//
//	    // Run the stage under test against fs...
//	}
//
// # Seeding Test Data
//
//   - WriteProjectTree: materialize a map[string]string of files to disk
//   - NewTestStore: build a FactStore against the default signal registry
//   - SeedFile: insert a File entity (and its Codebase parent)
//   - SeedSignals: write a batch of signal values onto an entity
//   - SeedImport: add a directed IMPORTS relation between two files
package testing
