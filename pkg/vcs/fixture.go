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

package vcs

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// FixtureProvider is an in-memory HistoryProvider built from a fixed
// commit log, the same "feed it a slice, iterate and accumulate"
// shape hercules uses to drive its commit-stat analyses. Tests build one
// directly; nothing else in this package constructs history by parsing a
// real repository.
type FixtureProvider struct {
	commits []Commit // oldest first
	head    string
	renames map[renameKey][]Rename
}

var _ HistoryProvider = (*FixtureProvider)(nil)

// NewFixtureProvider builds a FixtureProvider from commits, which must
// already be ordered oldest-first. The last commit (if any) becomes
// CurrentCommitSHA.
func NewFixtureProvider(commits []Commit) *FixtureProvider {
	fp := &FixtureProvider{commits: append([]Commit(nil), commits...)}
	if len(commits) > 0 {
		fp.head = commits[len(commits)-1].SHA
	}
	return fp
}

func (fp *FixtureProvider) CurrentCommitSHA(context.Context) (string, error) {
	if fp.head == "" {
		return "", ErrNoHistory
	}
	return fp.head, nil
}

func (fp *FixtureProvider) ListCommits(_ context.Context, window Window) ([]Commit, error) {
	out := make([]Commit, 0, len(fp.commits))
	for _, c := range fp.commits {
		if window.contains(c.Timestamp) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (fp *FixtureProvider) FilesInCommit(_ context.Context, sha string) ([]string, error) {
	for _, c := range fp.commits {
		if c.SHA == sha {
			return append([]string(nil), c.Files...), nil
		}
	}
	return nil, fmt.Errorf("vcs: unknown commit %q", sha)
}

// Diff compares the file sets touched at shaA and shaB directly; it does
// not attempt content-level rename detection since FixtureProvider carries
// no blob content, only file lists. Callers seed Renames explicitly via
// SetRenames when a test needs one.
func (fp *FixtureProvider) Diff(ctx context.Context, shaA, shaB string) (Diff, error) {
	a, err := fp.FilesInCommit(ctx, shaA)
	if err != nil {
		return Diff{}, err
	}
	b, err := fp.FilesInCommit(ctx, shaB)
	if err != nil {
		return Diff{}, err
	}
	inA := make(map[string]bool, len(a))
	for _, f := range a {
		inA[f] = true
	}
	inB := make(map[string]bool, len(b))
	for _, f := range b {
		inB[f] = true
	}
	var d Diff
	for _, f := range b {
		if !inA[f] {
			d.Adds = append(d.Adds, f)
		}
	}
	for _, f := range a {
		if !inB[f] {
			d.Removes = append(d.Removes, f)
		}
	}
	sort.Strings(d.Adds)
	sort.Strings(d.Removes)
	if rs, ok := fp.renames[renameKey{shaA, shaB}]; ok {
		d.Renames = rs
	}
	return d, nil
}

func (fp *FixtureProvider) Authors(_ context.Context, path string, window Window) (map[string]int, error) {
	counts := make(map[string]int)
	for _, c := range fp.commits {
		if !window.contains(c.Timestamp) || !touchesFile(c, path) {
			continue
		}
		counts[strings.ToLower(c.Author)]++
	}
	return counts, nil
}

func (fp *FixtureProvider) CommitMessages(_ context.Context, path string, window Window) ([]string, error) {
	var out []string
	for _, c := range fp.commits {
		if !window.contains(c.Timestamp) || !touchesFile(c, path) {
			continue
		}
		out = append(out, c.Message)
	}
	return out, nil
}

// SetRenames seeds the rename map Diff(shaA, shaB) reports for a given
// commit pair, since FixtureProvider has no content to detect renames
// from on its own.
func (fp *FixtureProvider) SetRenames(shaA, shaB string, renames []Rename) {
	if fp.renames == nil {
		fp.renames = make(map[renameKey][]Rename)
	}
	fp.renames[renameKey{shaA, shaB}] = renames
}

type renameKey struct{ a, b string }

func touchesFile(c Commit, path string) bool {
	for _, f := range c.Files {
		if f == path {
			return true
		}
	}
	return false
}
