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

package ir4

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

// assignModules resolves each file's module name in priority order
// (§4.5): explicit boundaries first, then IR3's Louvain communities
// when they form a non-trivial partition (more than one community, but
// not one community per file), then the file's top-level source
// directory as the always-available fallback. Every file ends up with
// exactly one module.
func assignModules(fs *store.FactStore, files []*store.Entity, boundaries map[string]string) map[store.EntityID]string {
	assign := make(map[store.EntityID]string, len(files))

	if len(boundaries) > 0 {
		for _, f := range files {
			if m, ok := boundaries[f.Key]; ok && m != "" {
				assign[f.ID] = m
			}
		}
	}

	if len(assign) < len(files) {
		communities := make(map[store.EntityID]int, len(files))
		distinct := make(map[int]bool)
		for _, f := range files {
			if _, done := assign[f.ID]; done {
				continue
			}
			v, ok := fs.Signal(f.ID, "community")
			if !ok {
				continue
			}
			c, _ := v.Int()
			communities[f.ID] = c
			distinct[c] = true
		}
		if len(distinct) > 1 && len(distinct) < len(files) {
			for _, f := range files {
				if _, done := assign[f.ID]; done {
					continue
				}
				if c, ok := communities[f.ID]; ok {
					assign[f.ID] = "community-" + strconv.Itoa(c)
				}
			}
		}
	}

	for _, f := range files {
		if _, done := assign[f.ID]; done {
			continue
		}
		assign[f.ID] = topLevelDir(f.Key)
	}
	return assign
}

// topLevelDir returns the first path segment of key's containing
// directory, or "root" for a file with no directory component.
func topLevelDir(key string) string {
	dir := path.Dir(path.Clean(key))
	if dir == "." || dir == "/" {
		return "root"
	}
	segments := strings.Split(strings.TrimPrefix(dir, "/"), "/")
	if segments[0] == "" {
		return "root"
	}
	return segments[0]
}

// moduleInfo bundles a Module entity's ID with the files assigned to
// it, sorted by Key for deterministic downstream iteration.
type moduleInfo struct {
	id    store.EntityID
	name  string
	files []*store.Entity
}

// materializeModules creates a Module entity per distinct assigned
// name, reparents every file onto its module (files are discovered
// directly under Codebase at IR0 time, per §3), and records the
// membership both ways (IN_MODULE, CONTAINS) alongside the structural
// Parent/Children link the reparenting itself establishes.
func materializeModules(fs *store.FactStore, codebase store.EntityID, files []*store.Entity, assign map[store.EntityID]string) []*moduleInfo {
	byName := make(map[string]*moduleInfo)
	var names []string
	for _, f := range files {
		name := assign[f.ID]
		mi, ok := byName[name]
		if !ok {
			mi = &moduleInfo{id: store.NewEntityID(store.KindModule, name), name: name}
			byName[name] = mi
			names = append(names, name)
		}
		mi.files = append(mi.files, f)
	}
	sort.Strings(names)

	out := make([]*moduleInfo, 0, len(names))
	for _, name := range names {
		mi := byName[name]
		sort.Slice(mi.files, func(i, j int) bool { return mi.files[i].Key < mi.files[j].Key })
		fs.AddEntity(&store.Entity{ID: mi.id, Kind: store.KindModule, Key: mi.name, Parent: codebase})
		for _, f := range mi.files {
			fs.Reparent(f.ID, mi.id)
			fs.AddRelation(store.Relation{Type: store.RelInModule, From: f.ID, To: mi.id})
			fs.AddRelation(store.Relation{Type: store.RelContains, From: mi.id, To: f.ID})
		}
		out = append(out, mi)
	}
	return out
}
