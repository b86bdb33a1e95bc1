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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

type fakeStage struct {
	name     string
	chain    Chain
	requires []string
	timeout  time.Duration
	run      func(ctx context.Context, fs *store.FactStore) error
}

func (f *fakeStage) Name() string     { return f.name }
func (f *fakeStage) Chain() Chain     { return f.chain }
func (f *fakeStage) Requires() []string { return f.requires }
func (f *fakeStage) Timeout() time.Duration {
	if f.timeout == 0 {
		return 5 * time.Second
	}
	return f.timeout
}
func (f *fakeStage) Run(ctx context.Context, fs *store.FactStore, tier Tier) error {
	if f.run == nil {
		return nil
	}
	return f.run(ctx, fs)
}

func newTestStore(t *testing.T) *store.FactStore {
	t.Helper()
	reg, err := store.DefaultRegistry()
	require.NoError(t, err)
	return store.New(reg, nil)
}

func TestSelectTier(t *testing.T) {
	assert.Equal(t, TierAbsolute, SelectTier(1))
	assert.Equal(t, TierAbsolute, SelectTier(14))
	assert.Equal(t, TierBayesian, SelectTier(15))
	assert.Equal(t, TierBayesian, SelectTier(49))
	assert.Equal(t, TierFull, SelectTier(50))
	assert.Equal(t, TierFull, SelectTier(10000))
}

func TestKernel_PlanDetectsMissingDependency(t *testing.T) {
	k := New(nil)
	k.Register(&fakeStage{name: "ir1", requires: []string{"ir0"}})
	err := k.Plan()
	assert.Error(t, err)
}

func TestKernel_PlanDetectsCycle(t *testing.T) {
	k := New(nil)
	k.Register(&fakeStage{name: "a", requires: []string{"b"}})
	k.Register(&fakeStage{name: "b", requires: []string{"a"}})
	err := k.Plan()
	assert.Error(t, err)
}

func TestKernel_ExecuteRunsInDependencyOrder(t *testing.T) {
	k := New(nil)
	fs := newTestStore(t)

	var order []string
	var orderMu sync.Mutex

	k.Register(&fakeStage{name: "ir0", chain: ChainStructural, run: func(ctx context.Context, fs *store.FactStore) error {
		orderMu.Lock()
		order = append(order, "ir0")
		orderMu.Unlock()
		return nil
	}})
	k.Register(&fakeStage{name: "ir1", chain: ChainStructural, requires: []string{"ir0"}, run: func(ctx context.Context, fs *store.FactStore) error {
		orderMu.Lock()
		order = append(order, "ir1")
		orderMu.Unlock()
		return nil
	}})

	require.NoError(t, k.Plan())
	res, err := k.Execute(context.Background(), fs, TierFull)
	require.NoError(t, err)

	assert.Equal(t, OutcomeOK, res.Outcomes["ir0"])
	assert.Equal(t, OutcomeOK, res.Outcomes["ir1"])
	require.Len(t, order, 2)
	assert.Equal(t, "ir0", order[0], "ir1 must not start before its dependency ir0 finishes")
}

func TestKernel_SkipsDependentsOfFailedStage(t *testing.T) {
	k := New(nil)
	fs := newTestStore(t)

	k.Register(&fakeStage{name: "ir0", run: func(ctx context.Context, fs *store.FactStore) error {
		return NewStageError("ir0", FileParseFailure, errors.New("boom"))
	}})
	k.Register(&fakeStage{name: "ir1", requires: []string{"ir0"}})

	res, err := k.Execute(context.Background(), fs, TierFull)
	require.NoError(t, err, "non-fatal stage errors must not abort the run")

	assert.Equal(t, OutcomeSkipped, res.Outcomes["ir0"])
	assert.Equal(t, OutcomeSkipped, res.Outcomes["ir1"])
}

func TestKernel_FatalErrorAbortsRun(t *testing.T) {
	k := New(nil)
	fs := newTestStore(t)

	k.Register(&fakeStage{name: "ir0", run: func(ctx context.Context, fs *store.FactStore) error {
		return NewStageError("ir0", CollectorFatal, errors.New("no files found"))
	}})

	_, err := k.Execute(context.Background(), fs, TierFull)
	assert.Error(t, err)
}

func TestKernel_StageTimeout(t *testing.T) {
	k := New(nil)
	fs := newTestStore(t)

	k.Register(&fakeStage{
		name:    "slow",
		timeout: 10 * time.Millisecond,
		run: func(ctx context.Context, fs *store.FactStore) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	res, err := k.Execute(context.Background(), fs, TierFull)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcomes["slow"])
}
