// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kernel implements the demand-driven stage scheduler: Plan
// orders the registered stages into a dependency DAG, Execute runs them
// with per-stage timeouts and cooperative cancellation, downgrading
// non-fatal failures to a stage-skip rather than aborting the run.
package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Kernel schedules and executes the registered stages against a
// FactStore. One Kernel is built per pipeline and reused across runs
// within a long-lived process, so that circuit breakers accumulate state
// across codebases rather than resetting every call.
type Kernel struct {
	log    *slog.Logger
	mu     sync.Mutex
	stages map[string]Stage

	breakersMu sync.Mutex
	breakers   map[string]*gobreaker.CircuitBreaker
}

// New builds a Kernel. log may be nil, in which case slog.Default() is
// used.
func New(log *slog.Logger) *Kernel {
	if log == nil {
		log = slog.Default()
	}
	return &Kernel{
		log:      log,
		stages:   make(map[string]Stage),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Register adds a stage to the kernel's plan. Registering a stage with a
// name already in use replaces it.
func (k *Kernel) Register(s Stage) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.stages[s.Name()] = s
}

// Plan validates that every stage's Requires names a registered stage and
// that the dependency graph is acyclic, without running anything. It is
// the kernel's "Plan" phase (§4.1): Collect discovers the file tree
// (IR0, handled outside the kernel by the caller before Execute), Trace
// walks Requires to build the DAG, Plan validates it, Execute runs it.
func (k *Kernel) Plan() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	visiting := make(map[string]int) // 0 unvisited, 1 in-progress, 2 done
	var visit func(name string) error
	visit = func(name string) error {
		switch visiting[name] {
		case 2:
			return nil
		case 1:
			return fmt.Errorf("kernel: dependency cycle detected at stage %q", name)
		}
		s, ok := k.stages[name]
		if !ok {
			return fmt.Errorf("kernel: stage %q required but not registered", name)
		}
		visiting[name] = 1
		for _, dep := range s.Requires() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[name] = 2
		return nil
	}
	for name := range k.stages {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// StageOutcome is terminal status of one stage execution.
type StageOutcome string

const (
	OutcomeOK      StageOutcome = "ok"
	OutcomeSkipped StageOutcome = "skipped"
	OutcomeFailed  StageOutcome = "failed"
)

// Result is the kernel's report of one Execute call.
type Result struct {
	Outcomes  map[string]StageOutcome
	Durations map[string]time.Duration
	// Errors holds, keyed by stage, the error of every stage that did not
	// complete: a fatal or non-fatal *StageError, or the raw error of an
	// unclassified failure.
	Errors map[string]error
}

// breaker returns (creating if needed) the circuit breaker guarding
// stage. Five consecutive failures opens the breaker for one minute,
// after which a single trial request is allowed through (§5: a stage
// that reliably times out or panics should stop being retried every run
// until it recovers).
func (k *Kernel) breaker(stage string) *gobreaker.CircuitBreaker {
	k.breakersMu.Lock()
	defer k.breakersMu.Unlock()
	if b, ok := k.breakers[stage]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        stage,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     1 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				recordBreakerTrip(name)
			}
		},
	})
	k.breakers[stage] = b
	return b
}

// Execute runs every registered stage to completion, respecting Requires
// order and chain concurrency: stages with no unmet dependency start as
// soon as their Requires are satisfied, regardless of Chain — the two
// chains of §5 emerge naturally from IR5s and IR6 listing IR4 and IR5t in
// Requires. A stage whose dependency was skipped or failed is itself
// skipped with StageDependencyMissing. Only a fatal StageError
// (ConfigInvalid, CollectorFatal) aborts the run; everything else is
// recorded in the returned Result.
func (k *Kernel) Execute(ctx context.Context, fs *store.FactStore, tier Tier) (*Result, error) {
	k.mu.Lock()
	stages := make(map[string]Stage, len(k.stages))
	for name, s := range k.stages {
		stages[name] = s
	}
	k.mu.Unlock()

	res := &Result{
		Outcomes:  make(map[string]StageOutcome, len(stages)),
		Durations: make(map[string]time.Duration, len(stages)),
		Errors:    make(map[string]error),
	}
	var resMu sync.Mutex

	done := make(map[string]chan struct{}, len(stages))
	for name := range stages {
		done[name] = make(chan struct{})
	}

	group, gctx := errgroup.WithContext(ctx)
	var combinedErr error
	var combinedMu sync.Mutex

	for name, s := range stages {
		name, s := name, s
		group.Go(func() error {
			defer close(done[name])

			for _, dep := range s.Requires() {
				select {
				case <-done[dep]:
				case <-gctx.Done():
					return nil
				}
			}

			resMu.Lock()
			unmet := ""
			for _, dep := range s.Requires() {
				if res.Outcomes[dep] != OutcomeOK {
					unmet = dep
					break
				}
			}
			if unmet != "" {
				res.Outcomes[name] = OutcomeSkipped
				res.Errors[name] = NewStageError(name, StageDependencyMissing, fmt.Errorf("dependency %q did not complete", unmet))
				resMu.Unlock()
				recordStageSkipped(name, string(StageDependencyMissing))
				k.log.Warn("stage skipped: dependency unmet",
					"event", "kernel.stage_skipped",
					"stage", name, "dependency", unmet)
				return nil
			}
			resMu.Unlock()

			if gctx.Err() != nil {
				return nil
			}

			stageCtx, cancel := context.WithTimeout(gctx, s.Timeout())
			defer cancel()

			start := time.Now()
			recordStageRun(name)
			_, runErr := k.breaker(name).Execute(func() (interface{}, error) {
				return nil, s.Run(stageCtx, fs, tier)
			})
			elapsed := time.Since(start)
			recordStageDuration(name, elapsed.Seconds())

			resMu.Lock()
			defer resMu.Unlock()
			res.Durations[name] = elapsed

			switch {
			case runErr == nil:
				res.Outcomes[name] = OutcomeOK
				k.log.Info("stage completed", "event", "kernel.stage_ok", "stage", name, "duration_ms", elapsed.Milliseconds())
				return nil
			case stageCtx.Err() == context.DeadlineExceeded:
				res.Outcomes[name] = OutcomeSkipped
				se := NewStageError(name, StageTimeout, runErr)
				res.Errors[name] = se
				recordStageTimeout(name)
				k.log.Warn("stage timed out", "event", "kernel.stage_timeout", "stage", name, "timeout", s.Timeout())
				return nil
			default:
				var se *StageError
				if asStageError(runErr, &se) {
					if se.Kind.Fatal() {
						res.Outcomes[name] = OutcomeFailed
						res.Errors[name] = se
						combinedMu.Lock()
						combinedErr = multierr.Append(combinedErr, se)
						combinedMu.Unlock()
						return se
					}
					res.Outcomes[name] = OutcomeSkipped
					res.Errors[name] = se
					recordStageSkipped(name, string(se.Kind))
					k.log.Warn("stage skipped", "event", "kernel.stage_skipped", "stage", name, "kind", se.Kind)
					return nil
				}
				// An unclassified error from a stage is treated as
				// non-fatal: log, skip, continue (§7's default posture
				// is "degrade, don't crash").
				res.Outcomes[name] = OutcomeSkipped
				res.Errors[name] = runErr
				recordStageSkipped(name, "unclassified")
				k.log.Warn("stage failed, skipping", "event", "kernel.stage_failed", "stage", name, "error", runErr)
				return nil
			}
		})
	}

	waitErr := group.Wait()
	if waitErr != nil {
		return res, multierr.Append(combinedErr, waitErr)
	}
	return res, nil
}

func asStageError(err error, target **StageError) bool {
	se, ok := err.(*StageError)
	if ok {
		*target = se
	}
	return ok
}
