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
	"path/filepath"
	"strings"
)

// defaultExcludes are applied in addition to any caller-supplied
// excludes: directories that are never source, never part of the
// analysis surface, and expensive to walk if not pruned early.
var defaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/.shannon-insight/**",
	"**/dist/**",
	"**/build/**",
}

// shouldExclude reports whether relPath (forward-slash, project-root
// relative) matches any of excludes.
func shouldExclude(relPath string, excludes []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range excludes {
		if matchesGlob(normalized, pattern) {
			return true
		}
	}
	return false
}

// matchesGlob supports the subset of glob syntax the exclude lists
// actually need: `dir/**` (directory and everything under it, at any
// depth in the tree), `*.ext` (extension match), and a literal
// substring/path-component match otherwise.
func matchesGlob(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimPrefix(strings.TrimSuffix(pattern, "/**"), "**/")
		parts := strings.Split(path, "/")
		for i := range parts {
			subpath := strings.Join(parts[i:], "/")
			if subpath == prefix || strings.HasPrefix(subpath, prefix+"/") {
				return true
			}
		}
		return false
	}

	if strings.HasPrefix(pattern, "*.") && !strings.Contains(pattern, "/") {
		return strings.HasSuffix(path, pattern[1:])
	}

	if !strings.ContainsAny(pattern, "*?[") {
		return path == pattern || strings.HasSuffix(path, "/"+pattern) || strings.HasPrefix(path, pattern+"/")
	}

	ok, err := filepath.Match(pattern, path)
	return err == nil && ok
}
