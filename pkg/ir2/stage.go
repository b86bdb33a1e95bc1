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

package ir2

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/parse"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Stage classifies role, extracts concepts, and scores completeness for
// every file ir1 parsed.
type Stage struct {
	// Root is the codebase's project root; compression_ratio re-reads
	// raw bytes independently of ir1, per the memory-discipline rule
	// that transient content is never carried forward in Metadata.
	Root        string
	Parallelism int
	Log         *slog.Logger
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir2" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainStructural }
func (s *Stage) Requires() []string     { return []string{"ir1"} }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("analyzer") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, _ kernel.Tier) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	files := fs.EntitiesByKind(store.KindFile)

	type parsed struct {
		file   *store.Entity
		syntax *parse.FileSyntax
	}
	var withSyntax []parsed
	var syntaxes []*parse.FileSyntax
	for _, f := range files {
		syntax, ok := f.Metadata["syntax"].(*parse.FileSyntax)
		if !ok {
			continue
		}
		withSyntax = append(withSyntax, parsed{file: f, syntax: syntax})
		syntaxes = append(syntaxes, syntax)
	}

	idf := corpusIDF(syntaxes)

	parallelism := s.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	var mu sync.Mutex
	failed := 0

	for _, p := range withSyntax {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			if err := s.processFile(fs, p.file, p.syntax, idf); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				log.Warn("ir2.file_semantic_failure", "path", p.file.Key, "err", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return kernel.NewStageError(s.Name(), kernel.StageTimeout, err)
	}
	if failed > 0 {
		log.Warn("ir2.semantic_failures", "count", failed)
	}
	return nil
}

// processFile writes every IR2 signal for one file. A non-fatal error
// here (compression_ratio's content re-read failing, say) still leaves
// role/concept/naming signals in place; only the signal that needed the
// missing input is skipped.
func (s *Stage) processFile(fs *store.FactStore, file *store.Entity, syntax *parse.FileSyntax, idf map[string]float64) error {
	hasEntryPoint, _ := file.Metadata["has_entry_point"].(bool)
	role := ClassifyRole(file.Key, syntax, hasEntryPoint)
	file.Metadata["role"] = string(role)

	concepts, entropy, contentTF, communities, conceptsOK := extractConcepts(syntax, idf)
	conceptCount, conceptEntropy := 1, 0.0
	if conceptsOK {
		conceptCount, conceptEntropy = len(concepts), entropy
		file.Metadata["concepts"] = concepts
	}
	if err := fs.SetSignal(file.ID, "concept_count", store.IntValue(conceptCount)); err != nil {
		return err
	}
	if err := fs.SetSignal(file.ID, "concept_entropy", store.FloatValue(conceptEntropy)); err != nil {
		return err
	}

	if drift, ok := namingDrift(file.Key, contentTF, idf); ok {
		if err := fs.SetSignal(file.ID, "naming_drift", store.FloatValue(drift)); err != nil {
			return err
		}
	}

	if err := fs.SetSignal(file.ID, "docstring_coverage", store.FloatValue(docstringCoverage(syntax))); err != nil {
		return err
	}
	if err := fs.SetSignal(file.ID, "todo_density", store.FloatValue(todoDensity(syntax))); err != nil {
		return err
	}
	if err := fs.SetSignal(file.ID, "cognitive_load", store.FloatValue(cognitiveLoad(syntax))); err != nil {
		return err
	}
	if err := fs.SetSignal(file.ID, "impl_gini", store.FloatValue(parse.ImplGini(syntax.Functions))); err != nil {
		return err
	}

	if coherence, ok := semanticCoherence(syntax, communities); ok {
		if err := fs.SetSignal(file.ID, "semantic_coherence", store.FloatValue(coherence)); err != nil {
			return err
		}
	}

	content, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(file.Key)))
	if err != nil {
		return err
	}
	return fs.SetSignal(file.ID, "compression_ratio", store.FloatValue(compressionRatio(content)))
}
