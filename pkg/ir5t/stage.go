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

package ir5t

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
	"github.com/kraklabs/shannon-insight/pkg/vcs"
)

// Stage derives temporal signals from a vcs.HistoryProvider. It requires
// ir4 rather than the spec prose's parallel "IR0+history" chain, because
// module_bus_factor needs the module entities ir4 materializes — the
// same registry-overrides-prose precedent ir4 itself documents for
// module_bus_factor's produced_by.
type Stage struct {
	History vcs.HistoryProvider
	Window  vcs.Window
	Log     *slog.Logger
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir5t" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainTemporal }
func (s *Stage) Requires() []string     { return []string{"ir4"} }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("analyzer") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, _ kernel.Tier) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	if s.History == nil {
		return kernel.NewStageError(s.Name(), kernel.StageDependencyMissing, errors.New("no history provider configured"))
	}

	commits, err := s.History.ListCommits(ctx, s.Window)
	if err != nil {
		return kernel.NewStageError(s.Name(), kernel.StageDependencyMissing, err)
	}
	if len(commits) == 0 {
		log.Info("ir5t.complete", "commits", 0)
		return nil
	}

	churn := make(map[string]*fileChurn)
	authorsByFile := make(map[string]map[string]int)
	var allTimestamps []time.Time
	var commitFileLists [][]string

	for _, c := range commits {
		if err := ctx.Err(); err != nil {
			return err
		}
		allTimestamps = append(allTimestamps, c.Timestamp)
		author := strings.ToLower(c.Author)
		fix := isFixCommit(c.Message)

		files := dedupeSorted(c.Files)
		commitFileLists = append(commitFileLists, files)

		for _, f := range files {
			fc, ok := churn[f]
			if !ok {
				fc = &fileChurn{}
				churn[f] = fc
			}
			fc.timestamps = append(fc.timestamps, c.Timestamp)
			if fix {
				fc.fixCount++
			}

			byAuthor, ok := authorsByFile[f]
			if !ok {
				byAuthor = make(map[string]int)
				authorsByFile[f] = byAuthor
			}
			byAuthor[author]++
		}
	}

	split := midpoint(allTimestamps)
	totalCommits := len(commits)

	if err := s.materializeHistory(fs, commits, authorsByFile); err != nil {
		return err
	}

	files := fs.EntitiesByKind(store.KindFile)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writeFileSignals(fs, f, churn[f.Key], split); err != nil {
			return err
		}
		if byAuthor, ok := authorsByFile[f.Key]; ok {
			if err := fs.SetSignal(f.ID, "bus_factor", store.IntValue(busFactor(byAuthor))); err != nil {
				return err
			}
		}
	}

	if err := s.writeCochangeEdges(fs, commitFileLists, churn, totalCommits); err != nil {
		return err
	}

	if err := s.writeModuleBusFactor(fs, authorsByFile); err != nil {
		return err
	}

	log.Info("ir5t.complete", "commits", totalCommits, "files_touched", len(churn))
	return nil
}

func (s *Stage) writeFileSignals(fs *store.FactStore, f *store.Entity, fc *fileChurn, split time.Time) error {
	if fc == nil || len(fc.timestamps) == 0 {
		return nil
	}
	total := len(fc.timestamps)
	if err := fs.SetSignal(f.ID, "total_changes", store.IntValue(total)); err != nil {
		return err
	}
	if err := fs.SetSignal(f.ID, "trajectory", store.FloatValue(trajectory(fc.timestamps, split))); err != nil {
		return err
	}
	if err := fs.SetSignal(f.ID, "fix_ratio", store.FloatValue(fixRatio(fc.fixCount, total))); err != nil {
		return err
	}
	return nil
}

// materializeHistory creates the Author and Commit entity catalogs (§3:
// "Entities are created during IR0 (files) or IR4 (modules) or IR5t
// (authors, commits)") and the AUTHORED_BY relations linking each file to
// the authors who touched it.
func (s *Stage) materializeHistory(fs *store.FactStore, commits []vcs.Commit, authorsByFile map[string]map[string]int) error {
	seenAuthors := make(map[string]bool)
	for _, c := range commits {
		sha := shortSHA(c.SHA)
		commitID := store.NewEntityID(store.KindCommit, sha)
		fs.AddEntity(&store.Entity{
			ID:   commitID,
			Kind: store.KindCommit,
			Key:  sha,
			Metadata: map[string]any{
				"sha":       c.SHA,
				"author":    strings.ToLower(c.Author),
				"timestamp": c.Timestamp,
				"message":   c.Message,
			},
		})

		author := strings.ToLower(c.Author)
		if !seenAuthors[author] {
			seenAuthors[author] = true
			fs.AddEntity(&store.Entity{
				ID:   store.NewEntityID(store.KindAuthor, author),
				Kind: store.KindAuthor,
				Key:  author,
			})
		}
	}

	for path, byAuthor := range authorsByFile {
		fileID := store.NewEntityID(store.KindFile, path)
		if _, ok := fs.Entity(fileID); !ok {
			continue
		}
		for author, count := range byAuthor {
			authorID := store.NewEntityID(store.KindAuthor, author)
			fs.AddRelation(store.Relation{
				Type:     store.RelAuthoredBy,
				From:     fileID,
				To:       authorID,
				Weight:   float64(count),
				Metadata: map[string]any{"meta": store.AuthoredByMeta{CommitCount: count}},
			})
		}
	}
	return nil
}

func (s *Stage) writeCochangeEdges(fs *store.FactStore, commitFileLists [][]string, churn map[string]*fileChurn, totalCommits int) error {
	pairs := cochangeCounts(commitFileLists)
	for pair, pairCount := range pairs {
		countA := fileTotalChanges(churn, pair.a)
		countB := fileTotalChanges(churn, pair.b)
		if countA == 0 || countB == 0 {
			continue
		}
		idA := store.NewEntityID(store.KindFile, pair.a)
		idB := store.NewEntityID(store.KindFile, pair.b)
		if _, ok := fs.Entity(idA); !ok {
			continue
		}
		if _, ok := fs.Entity(idB); !ok {
			continue
		}

		l := lift(pairCount, countA, countB, totalCommits)
		confAB := confidence(pairCount, countA)
		confBA := confidence(pairCount, countB)
		conf := confAB
		if confBA > conf {
			conf = confBA
		}

		fs.AddRelation(store.Relation{
			Type:     store.RelCochangesWith,
			From:     idA,
			To:       idB,
			Weight:   l,
			Metadata: map[string]any{"meta": store.CochangeMeta{Count: pairCount, Confidence: conf}},
		})
	}
	return nil
}

func (s *Stage) writeModuleBusFactor(fs *store.FactStore, authorsByFile map[string]map[string]int) error {
	modules := fs.EntitiesByKind(store.KindModule)
	for _, m := range modules {
		combined := make(map[string]int)
		touched := false
		for _, childID := range fs.Children(m.ID) {
			child, ok := fs.Entity(childID)
			if !ok || child.Kind != store.KindFile {
				continue
			}
			byAuthor, ok := authorsByFile[child.Key]
			if !ok {
				continue
			}
			touched = true
			for author, count := range byAuthor {
				combined[author] += count
			}
		}
		if !touched {
			continue
		}
		if err := fs.SetSignal(m.ID, "module_bus_factor", store.IntValue(busFactor(combined))); err != nil {
			return err
		}
	}
	return nil
}

func fileTotalChanges(churn map[string]*fileChurn, path string) int {
	fc, ok := churn[path]
	if !ok {
		return 0
	}
	return len(fc.timestamps)
}

func shortSHA(sha string) string {
	const n = 12
	if len(sha) <= n {
		return sha
	}
	return sha[:n]
}
