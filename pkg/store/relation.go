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

// RelationType identifies one of the eight typed edges of §3.
type RelationType string

const (
	RelImports       RelationType = "IMPORTS"
	RelCochangesWith RelationType = "COCHANGES_WITH"
	RelSimilarTo     RelationType = "SIMILAR_TO"
	RelAuthoredBy    RelationType = "AUTHORED_BY"
	RelInModule      RelationType = "IN_MODULE"
	RelContains      RelationType = "CONTAINS"
	RelDependsOn     RelationType = "DEPENDS_ON"
	RelClonedFrom    RelationType = "CLONED_FROM"
)

// symmetricTypes lists the relation types stored as a single canonical
// direction plus a reverse index (§3 invariant on symmetric relations).
var symmetricTypes = map[RelationType]bool{
	RelCochangesWith: true,
	RelSimilarTo:     true,
	RelClonedFrom:    true,
}

// Symmetric reports whether t is an undirected (↔) relation type.
func (t RelationType) Symmetric() bool { return symmetricTypes[t] }

// Relation is a typed edge between two entities. For symmetric types the
// store always canonicalizes From/To (lexicographically) before storing;
// FactStore.AddRelation performs this normalization so callers never have to.
type Relation struct {
	Type     RelationType
	From     EntityID
	To       EntityID
	Weight   float64
	Metadata map[string]any
}

// CochangeMeta is the metadata shape for COCHANGES_WITH relations.
type CochangeMeta struct {
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// AuthoredByMeta is the metadata shape for AUTHORED_BY relations.
type AuthoredByMeta struct {
	CommitCount int `json:"commit_count"`
}

// Cochange returns r's CochangeMeta payload under the "meta" key, the
// convention every stage that writes COCHANGES_WITH relations follows.
func (r Relation) Cochange() (CochangeMeta, bool) {
	m, ok := r.Metadata["meta"].(CochangeMeta)
	return m, ok
}
