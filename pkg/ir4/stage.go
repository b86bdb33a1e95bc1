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
	"context"
	"log/slog"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Stage detects module boundaries and derives every module-scope
// architecture signal from the cross-module IMPORTS edges ir1 wrote
// and the community/role signals ir2/ir3 already attached to each
// file. module_bus_factor is deliberately not computed here: the
// registry lists it as produced_by IR5t, since author_entropy needs
// VCS history this stage doesn't have.
type Stage struct {
	// Boundaries optionally pins a file's module by its project-relative
	// Key, the "explicit config" top of §4.5's detection priority. Files
	// it doesn't cover fall through to Louvain communities, then
	// top-level directories. Nil unless the caller has an external
	// module map to honor.
	Boundaries map[string]string
	Log        *slog.Logger
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir4" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainStructural }
func (s *Stage) Requires() []string     { return []string{"ir3"} }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("analyzer") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, _ kernel.Tier) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	codebases := fs.EntitiesByKind(store.KindCodebase)
	if len(codebases) != 1 {
		return nil
	}
	codebase := codebases[0].ID

	files := fs.EntitiesByKind(store.KindFile)
	if len(files) == 0 {
		return nil
	}

	assign := assignModules(fs, files, s.Boundaries)
	modules := materializeModules(fs, codebase, files, assign)

	moduleOf := make(map[store.EntityID]store.EntityID, len(files))
	for _, m := range modules {
		for _, f := range m.files {
			moduleOf[f.ID] = m.id
		}
	}

	edges := computeModuleEdges(fs, moduleOf)

	for pair, weight := range edges.crossPairWeight {
		if err := ctx.Err(); err != nil {
			return err
		}
		fs.AddRelation(store.Relation{Type: store.RelDependsOn, From: pair[0], To: pair[1], Weight: float64(weight)})
	}

	mg := buildModuleGraph(modules, edges.crossPairWeight)
	comp := tarjanComponents(mg)
	violations := layerViolations(mg, comp)

	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writeModuleSignals(fs, m, edges, violations[m.id]); err != nil {
			return err
		}
	}

	log.Info("ir4.complete", "modules", len(modules))
	return nil
}

func (s *Stage) writeModuleSignals(fs *store.FactStore, m *moduleInfo, edges *moduleEdges, violations int) error {
	totalLOC := 0
	for _, f := range m.files {
		if v, ok := fs.Signal(f.ID, "loc"); ok {
			loc, _ := v.Int()
			totalLOC += loc
		}
	}
	if err := fs.SetSignal(m.id, "total_loc", store.IntValue(totalLOC)); err != nil {
		return err
	}
	if err := fs.SetSignal(m.id, "file_count", store.IntValue(len(m.files))); err != nil {
		return err
	}

	ca, ce := edges.ca[m.id], edges.ce[m.id]
	inst, instOK := instability(ca, ce)
	if instOK {
		if err := fs.SetSignal(m.id, "instability", store.FloatValue(inst)); err != nil {
			return err
		}
	}

	abs, absOK := abstractness(m.files)
	if absOK {
		if err := fs.SetSignal(m.id, "abstractness", store.FloatValue(abs)); err != nil {
			return err
		}
	}

	if instOK && absOK {
		if err := fs.SetSignal(m.id, "main_seq_distance", store.FloatValue(mainSeqDistance(abs, inst))); err != nil {
			return err
		}
	}

	if coh, ok := cohesion(edges.internal[m.id], edges.touching[m.id]); ok {
		if err := fs.SetSignal(m.id, "cohesion", store.FloatValue(coh)); err != nil {
			return err
		}
	}

	if err := fs.SetSignal(m.id, "coupling", store.FloatValue(coupling(ca+ce, len(m.files)))); err != nil {
		return err
	}

	if align, ok := boundaryAlignment(fs, m.files); ok {
		if err := fs.SetSignal(m.id, "boundary_alignment", store.FloatValue(align)); err != nil {
			return err
		}
	}

	if err := fs.SetSignal(m.id, "role_consistency", store.FloatValue(roleConsistency(m.files))); err != nil {
		return err
	}

	return fs.SetSignal(m.id, "layer_violation_count", store.IntValue(violations))
}
