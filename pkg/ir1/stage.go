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
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/parse"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Stage runs pkg/parse over every File entity ir0 discovered.
type Stage struct {
	// Root is the codebase's project root; File.Key is root-relative.
	Root string
	// Parallelism bounds the per-file worker pool; 0 uses runtime.NumCPU().
	Parallelism int
	Log         *slog.Logger
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir1" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainStructural }
func (s *Stage) Requires() []string     { return []string{"ir0"} }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("analyzer") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, _ kernel.Tier) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	files := fs.EntitiesByKind(store.KindFile)
	parallelism := s.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	parsers := sync.Pool{New: func() any { return parse.NewAutoParser() }}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	var mu sync.Mutex
	var parseErrs error
	failed := 0

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := parsers.Get().(parse.CodeParser)
			defer parsers.Put(p)

			if err := s.processFile(fs, p, file); err != nil {
				mu.Lock()
				parseErrs = multierr.Append(parseErrs, err)
				failed++
				mu.Unlock()
				log.Warn("ir1.file_parse_failure", "path", file.Key, "err", err)
			}
			return nil
		})
	}

	// Errors from processFile are intentionally swallowed by the
	// goroutines (FileParseFailure is non-fatal and per-file, §7); Wait
	// only surfaces a cancellation.
	if err := g.Wait(); err != nil {
		return kernel.NewStageError(s.Name(), kernel.StageTimeout, err)
	}
	if failed > 0 {
		log.Warn("ir1.parse_failures", "count", failed, "errs", multierr.Errors(parseErrs))
	}

	resolveImports(fs, files)

	return nil
}

// processFile reads, parses, and writes the syntactic signals for one
// File entity. An error here is a FileParseFailure: the file is left
// without loc/function_count/stub_ratio signals but stays in the store.
func (s *Stage) processFile(fs *store.FactStore, p parse.CodeParser, file *store.Entity) error {
	content, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(file.Key)))
	if err != nil {
		return err
	}

	language := file.MetaString("language")
	syntax, err := p.Parse(file.Key, language, content)
	if err != nil {
		return err
	}

	file.Metadata["syntax"] = syntax
	if isEntryPoint(syntax) {
		file.Metadata["has_entry_point"] = true
	}

	if err := fs.SetSignal(file.ID, "loc", store.IntValue(syntax.LOC)); err != nil {
		return err
	}
	if err := fs.SetSignal(file.ID, "function_count", store.IntValue(len(syntax.Functions))); err != nil {
		return err
	}
	return fs.SetSignal(file.ID, "stub_ratio", store.FloatValue(parse.StubRatio(syntax.Functions)))
}

// isEntryPoint flags the unambiguous case a single file can decide on
// its own: a package-main `func main()`. The broader "exported function
// with no in-codebase callers" half of entry-point detection needs the
// call graph IR3 builds and is deferred there.
func isEntryPoint(syntax *parse.FileSyntax) bool {
	if syntax.PackageName != "main" {
		return false
	}
	for _, fn := range syntax.Functions {
		if fn.Name == "main" && !fn.HasReceiver {
			return true
		}
	}
	return false
}
