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

package ir1

import (
	"path"
	"sort"
	"strings"

	"github.com/kraklabs/shannon-insight/pkg/parse"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// resolveImports turns every parsed file's ImportDecls into IMPORTS
// relations against other files in the same codebase. Resolution priority
// mirrors the teacher's CallResolver (package index → global function
// table → alias → same-package fallback), adapted from resolving a call's
// target function to resolving an import path's target package directory:
//
//  1. exact-with-extension: the import literally names a file in the tree
//     (relative imports written as a path, e.g. "./util.go").
//  2. package initializer: a directory whose base name matches the
//     import's last path segment exactly (ties broken by longest
//     trailing-segment overlap with the import path); that directory's
//     lexicographically-first file other than the importer itself
//     stands in for the package.
//  3. same-directory: the import resolves to a directory containing the
//     importing file itself (intra-package references between files that
//     still declare an import, which Go itself forbids but generated or
//     vendored code sometimes does).
//  4. deepest common ancestor: the directory in the tree whose path
//     shares the longest trailing-segment run with the import path.
//
// Imports that resolve to nothing (an external module dependency) are
// left unrecorded; §3's IMPORTS relation only connects entities the
// codebase actually contains.
func resolveImports(fs *store.FactStore, files []*store.Entity) {
	byKey := make(map[string]*store.Entity, len(files))
	dirOf := make(map[string][]*store.Entity)
	for _, f := range files {
		byKey[f.Key] = f
		dir := path.Dir(f.Key)
		dirOf[dir] = append(dirOf[dir], f)
	}
	for dir := range dirOf {
		sort.Slice(dirOf[dir], func(i, j int) bool { return dirOf[dir][i].Key < dirOf[dir][j].Key })
	}

	dirs := make([]string, 0, len(dirOf))
	for dir := range dirOf {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, file := range files {
		syntax, ok := file.Metadata["syntax"].(*parse.FileSyntax)
		if !ok {
			continue
		}
		for i := range syntax.Imports {
			imp := &syntax.Imports[i]
			target := resolveOne(file, imp.Path, byKey, dirOf, dirs)
			if target == "" || target == file.ID {
				imp.IsExternal = isExternalImportPath(imp.Path)
				continue
			}
			if targetEntity, ok := fs.Entity(target); ok {
				imp.ResolvedPath = targetEntity.Key
			}
			fs.AddRelation(store.Relation{Type: store.RelImports, From: file.ID, To: target, Weight: 1})
		}
	}
}

// goStdlibPackages is a representative (not exhaustive) set of common Go
// standard library import paths, used by isExternalImportPath to tell a
// known-stdlib import apart from a genuinely broken one when neither
// resolves inside the project tree.
var goStdlibPackages = map[string]bool{
	"fmt": true, "os": true, "io": true, "bufio": true, "bytes": true,
	"strings": true, "strconv": true, "time": true, "context": true,
	"sync": true, "sync/atomic": true, "net": true, "net/http": true,
	"net/url": true, "encoding/json": true, "encoding/hex": true,
	"encoding/base64": true, "errors": true, "sort": true, "math": true,
	"math/rand": true, "log": true, "log/slog": true, "path": true,
	"path/filepath": true, "regexp": true, "testing": true, "flag": true,
	"crypto/sha256": true, "crypto/md5": true, "unicode": true,
	"unicode/utf8": true, "reflect": true, "runtime": true, "container/list": true,
	"container/heap": true, "compress/flate": true, "compress/gzip": true,
	"archive/zip": true, "archive/tar": true, "database/sql": true,
	"text/template": true, "html/template": true,
}

// isExternalImportPath reports whether an otherwise-unresolved import
// path should be counted as a known external dependency (stdlib or a
// third-party module) rather than a phantom (§4.2). Third-party Go
// module paths are domain-qualified by convention (e.g.
// "github.com/foo/bar", "golang.org/x/sync"), so a dot in the first path
// segment is treated as strong evidence of an external module; anything
// else is checked against a representative stdlib package list.
func isExternalImportPath(importPath string) bool {
	clean := strings.Trim(importPath, "./")
	if clean == "" {
		return false
	}
	first := strings.SplitN(clean, "/", 2)[0]
	if strings.Contains(first, ".") {
		return true
	}
	return goStdlibPackages[clean]
}

func resolveOne(file *store.Entity, importPath string, byKey map[string]*store.Entity, dirOf map[string][]*store.Entity, dirs []string) store.EntityID {
	// 1. exact-with-extension
	clean := strings.TrimPrefix(importPath, "./")
	clean = strings.TrimPrefix(clean, "/")
	if f, ok := byKey[clean]; ok {
		return f.ID
	}

	base := path.Base(importPath)
	importSegs := strings.Split(strings.Trim(importPath, "/"), "/")

	// 2. package initializer: directories whose base name matches. When
	// more than one does (vendored or duplicated package names), the
	// deepest common ancestor with importPath breaks the tie rather than
	// an arbitrary sorted-first pick, keeping resolution deterministic.
	bestDir, bestScore := "", -1
	for _, dir := range dirs {
		if path.Base(dir) != base {
			continue
		}
		score := commonSuffixLen(importSegs, strings.Split(dir, "/"))
		if score > bestScore {
			bestScore, bestDir = score, dir
		}
	}
	if bestDir != "" {
		if id := representative(dirOf[bestDir], file.ID); id != "" {
			return id
		}
	}

	// 3. same-directory: the importing file's own directory carries the
	// package name.
	ownDir := path.Dir(file.Key)
	if path.Base(ownDir) == base {
		if id := representative(dirOf[ownDir], file.ID); id != "" {
			return id
		}
	}

	// 4. deepest common ancestor: longest shared trailing-segment run
	// between importPath and any known directory, regardless of basename.
	bestDir, bestScore = "", 0
	for _, dir := range dirs {
		score := commonSuffixLen(importSegs, strings.Split(dir, "/"))
		if score > bestScore {
			bestScore, bestDir = score, dir
		}
	}
	if bestScore > 0 {
		if id := representative(dirOf[bestDir], file.ID); id != "" {
			return id
		}
	}

	return ""
}

// representative returns the lexicographically-first entity in entities
// that isn't self, standing in for the package it belongs to.
func representative(entities []*store.Entity, self store.EntityID) store.EntityID {
	for _, e := range entities {
		if e.ID != self {
			return e.ID
		}
	}
	return ""
}

// commonSuffixLen counts how many trailing elements a and b share.
func commonSuffixLen(a, b []string) int {
	n := 0
	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0 && a[i] == b[j]; i, j = i-1, j-1 {
		n++
	}
	return n
}
