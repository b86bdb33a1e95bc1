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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureCommits() []Commit {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Commit{
		{SHA: "c1", Author: "Alice@Example.com", Timestamp: base, Message: "add auth", Files: []string{"auth.py"}},
		{SHA: "c2", Author: "bob@example.com", Timestamp: base.AddDate(0, 0, 1), Message: "fix session bug", Files: []string{"auth.py", "session.py"}},
		{SHA: "c3", Author: "alice@example.com", Timestamp: base.AddDate(0, 0, 2), Message: "refactor session", Files: []string{"session.py"}},
	}
}

func TestFixtureProvider_ListCommitsHonorsWindow(t *testing.T) {
	fp := NewFixtureProvider(fixtureCommits())
	got, err := fp.ListCommits(context.Background(), Window{})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = fp.ListCommits(context.Background(), Window{Since: fixtureCommits()[1].Timestamp})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFixtureProvider_CurrentCommitSHAIsLastCommit(t *testing.T) {
	fp := NewFixtureProvider(fixtureCommits())
	sha, err := fp.CurrentCommitSHA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c3", sha)
}

func TestFixtureProvider_AuthorsAreCaseFolded(t *testing.T) {
	fp := NewFixtureProvider(fixtureCommits())
	counts, err := fp.Authors(context.Background(), "auth.py", Window{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"alice@example.com": 1}, counts)
}

func TestFixtureProvider_CommitMessagesFilterByPath(t *testing.T) {
	fp := NewFixtureProvider(fixtureCommits())
	msgs, err := fp.CommitMessages(context.Background(), "session.py", Window{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fix session bug", "refactor session"}, msgs)
}

func TestFixtureProvider_DiffReportsAddsAndRemoves(t *testing.T) {
	fp := NewFixtureProvider(fixtureCommits())
	d, err := fp.Diff(context.Background(), "c1", "c2")
	require.NoError(t, err)
	assert.Equal(t, []string{"session.py"}, d.Adds)
	assert.Empty(t, d.Removes)
}

func TestNullProvider_EverythingFailsWithErrNoHistory(t *testing.T) {
	var p NullProvider
	_, err := p.CurrentCommitSHA(context.Background())
	assert.ErrorIs(t, err, ErrNoHistory)
	_, err = p.ListCommits(context.Background(), Window{})
	assert.ErrorIs(t, err, ErrNoHistory)
	_, err = p.Authors(context.Background(), "x", Window{})
	assert.ErrorIs(t, err, ErrNoHistory)
}
