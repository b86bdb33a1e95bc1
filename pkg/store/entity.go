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

package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Kind identifies which of the five entity kinds (§3) an Entity is.
type Kind string

const (
	KindCodebase Kind = "codebase"
	KindModule   Kind = "module"
	KindFile     Kind = "file"
	KindAuthor   Kind = "author"
	KindCommit   Kind = "commit"
)

// EntityID uniquely identifies an entity within a snapshot. It is derived
// deterministically from (Kind, Key) so that re-running the pipeline on an
// unchanged tree produces identical IDs, the same normalize-then-hash idea
// as the teacher's GenerateFileID/GenerateFunctionID.
type EntityID string

// NewEntityID builds the canonical ID for an entity's natural key. Keys
// longer than 200 bytes are hashed to keep IDs a bounded size (paths on
// deeply nested monorepos can otherwise run long).
func NewEntityID(kind Kind, key string) EntityID {
	if len(key) <= 200 {
		return EntityID(fmt.Sprintf("%s:%s", kind, key))
	}
	sum := sha256.Sum256([]byte(key))
	return EntityID(fmt.Sprintf("%s:%s", kind, hex.EncodeToString(sum[:16])))
}

// Entity is a node in the Codebase/Module/File tree, or a member of the
// flat Author/Commit catalogs (§3).
type Entity struct {
	ID   EntityID
	Kind Kind
	// Key is the entity's natural key: absolute path (Codebase), module
	// name (Module), project-relative forward-slash path (File),
	// case-folded email (Author), or short hash (Commit).
	Key string
	// Parent is the containing entity (Module for a File if modules
	// exist, else Codebase; Codebase for a Module). Empty for Codebase,
	// Author, and Commit, which have no structural parent (§3 invariant:
	// "every File has exactly one parent").
	Parent EntityID
	// Metadata holds free-form, non-signal attributes (e.g. a File's
	// detected language, a Commit's timestamp).
	Metadata map[string]any
}

// MetaString returns a string metadata value, or "" if absent/wrong type.
func (e *Entity) MetaString(key string) string {
	if v, ok := e.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// MetaInt returns an int metadata value, or 0 if absent/wrong type.
func (e *Entity) MetaInt(key string) int {
	switch v := e.Metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
