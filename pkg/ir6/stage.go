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

package ir6

import (
	"context"
	"log/slog"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Stage runs every registered Pattern against the joined fact store and
// ranks the resulting Findings. kernel.Stage.Run has no return channel
// of its own, so callers read the ranked output back from the Findings
// field after Run succeeds.
type Stage struct {
	Log *slog.Logger

	// ArchitectureHistory supplies prior snapshots' codebase-level
	// layer-violation rates (oldest first), the only cross-snapshot
	// input a pattern in this package needs (ARCHITECTURE_EROSION).
	// Nil on a first run.
	ArchitectureHistory []float64

	Findings []Finding
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir6" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainJoin }
func (s *Stage) Requires() []string     { return []string{"ir5s"} }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("analyzer") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, tier kernel.Tier) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	evalCtx := newEvalContext(fs, tier, s.ArchitectureHistory)

	var findings []Finding
	for _, p := range Patterns() {
		if err := ctx.Err(); err != nil {
			return err
		}
		findings = append(findings, p.evaluate(evalCtx)...)
	}

	rankFindings(findings)
	s.Findings = findings

	log.Info("ir6.complete", "tier", string(tier), "findings", len(findings))
	return nil
}
