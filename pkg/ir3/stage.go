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

package ir3

import (
	"context"
	"log/slog"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/parse"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Stage derives every REFERENCE-dimension signal from the IMPORTS
// relations ir1 wrote: the file-scope graph metrics (pagerank, degree,
// depth, blast radius, community, orphan/phantom counts) and the
// codebase-scope topology metrics (modularity, spectral signals, cycle
// count, centrality inequality, the orphan/phantom ratios, and the glue
// deficit). It also runs clone detection over file content and emits
// CLONED_FROM relations.
type Stage struct {
	// Root is the codebase's project root; clone detection re-reads raw
	// file bytes independently of ir1/ir2, the same memory discipline
	// they follow.
	Root string
	Log  *slog.Logger
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir3" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainStructural }
func (s *Stage) Requires() []string     { return []string{"ir2"} }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("analyzer") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, _ kernel.Tier) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	g := buildImportGraph(fs)
	n := g.n()
	if n == 0 {
		return nil
	}

	ranks := pagerank(g.adjacencyMatrix())
	entries := entryPointIndices(g)
	depths := bfsDistances(g.out, entries)
	communities, proj := louvainCommunities(g)

	orphanCount, totalImports, phantomImports, glueEligible := 0, 0, 0, 0

	for i, f := range g.files {
		if err := ctx.Err(); err != nil {
			return err
		}

		inDeg, outDeg := len(g.in[i]), len(g.out[i])
		if err := fs.SetSignal(f.ID, "pagerank", store.FloatValue(ranks[i])); err != nil {
			return err
		}
		if err := fs.SetSignal(f.ID, "in_degree", store.IntValue(inDeg)); err != nil {
			return err
		}
		if err := fs.SetSignal(f.ID, "out_degree", store.IntValue(outDeg)); err != nil {
			return err
		}
		if depths[i] >= 0 {
			if err := fs.SetSignal(f.ID, "depth", store.IntValue(depths[i])); err != nil {
				return err
			}
		}
		if err := fs.SetSignal(f.ID, "blast_radius_size", store.IntValue(reachableCount(g.in, i))); err != nil {
			return err
		}
		if err := fs.SetSignal(f.ID, "community", store.IntValue(communities[i])); err != nil {
			return err
		}

		role := f.MetaString("role")
		orphan := isOrphan(inDeg, role)
		if orphan {
			orphanCount++
		}
		if err := fs.SetSignal(f.ID, "is_orphan", store.BoolValue(orphan)); err != nil {
			return err
		}

		phantoms := phantomImportCount(f)
		phantomImports += phantoms
		if syntax, ok := f.Metadata["syntax"].(*parse.FileSyntax); ok {
			totalImports += len(syntax.Imports)
		}
		if err := fs.SetSignal(f.ID, "phantom_import_count", store.IntValue(phantoms)); err != nil {
			return err
		}

		// broken_call_count stays at 0 until cross-language call
		// resolution exists (signals.yaml documents this directly).
		if err := fs.SetSignal(f.ID, "broken_call_count", store.IntValue(0)); err != nil {
			return err
		}

		if inDeg > 0 && outDeg > 0 {
			glueEligible++
		}
	}

	topo := computeTopology(g, communities, proj, ranks, orphanCount, totalImports, phantomImports, glueEligible)
	if err := s.writeTopology(fs, topo); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	detectClones(fs, s.Root, g.files)
	log.Info("ir3.complete", "files", n, "cycles", topo.CycleCount)
	return nil
}

// writeTopology attaches the codebase-scope signals to the run's single
// Codebase entity, which ir0 always creates.
func (s *Stage) writeTopology(fs *store.FactStore, topo topologySignals) error {
	codebases := fs.EntitiesByKind(store.KindCodebase)
	if len(codebases) != 1 {
		return nil
	}
	cb := codebases[0].ID

	if err := fs.SetSignal(cb, "modularity", store.FloatValue(topo.Modularity)); err != nil {
		return err
	}
	if topo.FiedlerOK {
		if err := fs.SetSignal(cb, "fiedler_value", store.FloatValue(topo.Fiedler)); err != nil {
			return err
		}
	}
	if topo.SpectralGapOK {
		if err := fs.SetSignal(cb, "spectral_gap", store.FloatValue(topo.SpectralGap)); err != nil {
			return err
		}
	}
	if err := fs.SetSignal(cb, "cycle_count", store.IntValue(topo.CycleCount)); err != nil {
		return err
	}
	if err := fs.SetSignal(cb, "centrality_gini", store.FloatValue(topo.CentralityGini)); err != nil {
		return err
	}
	if err := fs.SetSignal(cb, "orphan_ratio", store.FloatValue(topo.OrphanRatio)); err != nil {
		return err
	}
	if err := fs.SetSignal(cb, "phantom_ratio", store.FloatValue(topo.PhantomRatio)); err != nil {
		return err
	}
	return fs.SetSignal(cb, "glue_deficit", store.FloatValue(topo.GlueDeficit))
}
