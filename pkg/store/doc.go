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

// Package store implements the fact store: the shared, per-run substrate
// that every IR stage reads from and writes into.
//
// The store holds three kinds of facts:
//
//   - Entities: a Codebase/Module/File tree plus flat Author and Commit
//     catalogs (see Entity and Kind).
//   - Signals: a per-entity mapping from signal name to a typed value
//     (Value), validated against the static Registry.
//   - Relations: typed, possibly-symmetric edges between entities
//     (see Relation and RelationType).
//
// The store is write-partitioned (§5): each IR stage owns the signals and
// relations it produces, writes them once, and never touches another
// stage's output. After a stage closes its writes are immutable, so reads
// need no locking in steady state — a single happens-before edge (the
// stage boundary) is enough.
package store
