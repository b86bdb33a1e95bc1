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
	"context"
	"log/slog"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Stage wires Discover into the kernel as the sole collector with no
// upstream dependencies; every other stage's Requires() eventually
// bottoms out here.
type Stage struct {
	Config Config
	Log    *slog.Logger

	// result is populated by Run and read by callers that need the
	// discovered File IDs (IR1's worker pool iterates it directly rather
	// than re-querying the store by kind).
	result *Result
}

var _ kernel.Stage = (*Stage)(nil)

func (s *Stage) Name() string           { return "ir0" }
func (s *Stage) Chain() kernel.Chain    { return kernel.ChainStructural }
func (s *Stage) Requires() []string     { return nil }
func (s *Stage) Timeout() time.Duration { return kernel.DefaultTimeout("collector") }

func (s *Stage) Run(ctx context.Context, fs *store.FactStore, _ kernel.Tier) error {
	result, err := Discover(ctx, fs, s.Log, s.Config)
	if err != nil {
		return kernel.NewStageError(s.Name(), kernel.CollectorFatal, err)
	}
	s.result = result
	return nil
}

// Result returns the outcome of the most recent Run, or nil if Run has
// not completed.
func (s *Stage) Result() *Result { return s.result }
