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

package ir5s

import (
	"context"
	"log/slog"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Stage computes percentile ranks and the composite signals IR5s owns.
// It requires both ir4 and ir5t directly: per the kernel's own scheduling
// doc, these two Requires entries are what make the structural and
// temporal chains of §5 join here rather than at some other stage.
type Stage struct {
	Log *slog.Logger
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir5s" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainJoin }
func (s *Stage) Requires() []string     { return []string{"ir4", "ir5t"} }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("analyzer") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, tier kernel.Tier) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	if tier == kernel.TierAbsolute {
		log.Info("ir5s.complete", "tier", string(tier), "composites", 0)
		return nil
	}

	files := fs.EntitiesByKind(store.KindFile)
	pagerankPctl := Percentile(fs, store.KindFile, "pagerank", tier)
	blastPctl := Percentile(fs, store.KindFile, "blast_radius_size", tier)
	cogPctl := Percentile(fs, store.KindFile, "cognitive_load", tier)
	maxBusFactor, maxBusFactorOK := corpusMax(fs, store.KindFile, "bus_factor")

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		in := readFileRiskInputs(fs, f.ID)
		prPctl, prOK := pagerankPctl[f.ID]
		blPctl, blOK := blastPctl[f.ID]
		cgPctl, cgOK := cogPctl[f.ID]

		risk, riskOK := riskScore(in, prPctl, blPctl, cgPctl, prOK, blOK, cgOK, maxBusFactor, maxBusFactorOK)
		if riskOK {
			if err := fs.SetSignal(f.ID, "risk_score", store.FloatValue(risk)); err != nil {
				return err
			}
		}

		wiring, wiringOK := wiringQuality(fs, f.ID)
		if wiringOK {
			if err := fs.SetSignal(f.ID, "wiring_quality", store.FloatValue(wiring)); err != nil {
				return err
			}
		}

		if health, ok := healthScore(fs, f.ID, risk, riskOK, wiring, wiringOK); ok {
			if err := fs.SetSignal(f.ID, "health_score", store.FloatValue(health)); err != nil {
				return err
			}
		}
	}

	if err := s.writeCodebaseComposites(fs); err != nil {
		return err
	}

	log.Info("ir5s.complete", "tier", string(tier), "files", len(files))
	return nil
}

func (s *Stage) writeCodebaseComposites(fs *store.FactStore) error {
	codebases := fs.EntitiesByKind(store.KindCodebase)
	if len(codebases) != 1 {
		return nil
	}
	cb := codebases[0].ID

	wiring, wiringOK := wiringScore(fs, cb)
	if wiringOK {
		if err := fs.SetSignal(cb, "wiring_score", store.FloatValue(wiring)); err != nil {
			return err
		}
	}

	arch, archOK := architectureHealth(fs, cb)
	if archOK {
		if err := fs.SetSignal(cb, "architecture_health", store.FloatValue(arch)); err != nil {
			return err
		}
	}

	if health, ok := codebaseHealth(arch, archOK, wiring, wiringOK); ok {
		if err := fs.SetSignal(cb, "codebase_health", store.FloatValue(health)); err != nil {
			return err
		}
	}
	return nil
}
