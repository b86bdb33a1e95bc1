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

package kernel

import (
	"context"
	"time"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Tier selects how much of the signal surface a run computes, scaled to
// codebase size: ABSOLUTE on tiny inputs (percentiles are meaningless
// with few samples), BAYESIAN on mid-size inputs (percentiles shrunk
// toward a prior), FULL otherwise.
type Tier string

const (
	TierAbsolute Tier = "absolute"
	TierBayesian Tier = "bayesian"
	TierFull     Tier = "full"
)

// SelectTier picks a Tier from the discovered file count (§4.1).
func SelectTier(fileCount int) Tier {
	switch {
	case fileCount < 15:
		return TierAbsolute
	case fileCount < 50:
		return TierBayesian
	default:
		return TierFull
	}
}

// Chain identifies which of the two parallel stage chains (§5) a stage
// belongs to: Structural runs IR0-IR4 from the file tree, Temporal runs
// IR0 plus VCS history into IR5t. Both join at IR5s.
type Chain string

const (
	ChainStructural Chain = "structural"
	ChainTemporal   Chain = "temporal"
	ChainJoin       Chain = "join" // IR5s and IR6, which must wait for both chains
)

// Stage is the capability every IR stage implements to plug into the
// kernel. Run receives the shared store and must only write signals and
// relations it owns (§5's write-partition contract); it may read any
// signal written by a stage it depends on, named in Requires.
type Stage interface {
	// Name identifies the stage in logs, metrics, and StageError (e.g.
	// "ir1", "ir3", "ir5s").
	Name() string
	// Chain reports which concurrent chain this stage belongs to.
	Chain() Chain
	// Requires lists the stage names that must have completed
	// successfully before Run is called. If any required stage was
	// skipped, the kernel skips this stage too and records
	// StageDependencyMissing.
	Requires() []string
	// Timeout bounds how long Run may execute before the kernel cancels
	// its context and records StageTimeout.
	Timeout() time.Duration
	// Run executes the stage against fs, scoped to tier. A returned
	// *StageError is handled by its Kind; any other non-nil error is
	// recorded as returned and the stage is skipped as non-fatal.
	Run(ctx context.Context, fs *store.FactStore, tier Tier) error
}

// DefaultTimeout returns the budget for a stage of the given role, per
// §5: collectors get 2 minutes, analyzers get 5, and the "finder" role
// gets 30 seconds. No stage uses the finder role: IR6 evaluates all of
// its patterns inside its own analyzer budget, with no per-pattern
// timeout.
func DefaultTimeout(role string) time.Duration {
	switch role {
	case "collector":
		return 2 * time.Minute
	case "finder":
		return 30 * time.Second
	default:
		return 5 * time.Minute
	}
}
