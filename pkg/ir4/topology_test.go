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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

func newModuleGraph(names ...string) (*moduleGraph, []*moduleInfo) {
	modules := make([]*moduleInfo, len(names))
	for i, n := range names {
		modules[i] = &moduleInfo{id: store.NewEntityID(store.KindModule, n), name: n}
	}
	pairs := map[[2]store.EntityID]int{}
	return buildModuleGraph(modules, pairs), modules
}

func addModuleEdge(g *moduleGraph, pairs map[[2]store.EntityID]int, from, to int) {
	pairs[[2]store.EntityID{g.ids[from], g.ids[to]}] = 1
}

func TestTarjanComponents_AcyclicModulesAreEachTheirOwnComponent(t *testing.T) {
	g, modules := newModuleGraph("a", "b", "c")
	pairs := map[[2]store.EntityID]int{}
	addModuleEdge(g, pairs, 0, 1)
	addModuleEdge(g, pairs, 1, 2)
	g = buildModuleGraph(modules, pairs)

	comp := tarjanComponents(g)
	assert.NotEqual(t, comp[0], comp[1])
	assert.NotEqual(t, comp[1], comp[2])
}

func TestTarjanComponents_TwoModuleCycleSharesAComponent(t *testing.T) {
	g, modules := newModuleGraph("a", "b", "c")
	pairs := map[[2]store.EntityID]int{}
	addModuleEdge(g, pairs, 0, 1)
	addModuleEdge(g, pairs, 1, 0)
	addModuleEdge(g, pairs, 1, 2)
	g = buildModuleGraph(modules, pairs)

	comp := tarjanComponents(g)
	assert.Equal(t, comp[0], comp[1])
	assert.NotEqual(t, comp[1], comp[2])
}

func TestLayerViolations_OnlyCycleParticipatingEdgesCount(t *testing.T) {
	g, modules := newModuleGraph("a", "b", "c")
	pairs := map[[2]store.EntityID]int{}
	addModuleEdge(g, pairs, 0, 1) // a -> b, acyclic
	addModuleEdge(g, pairs, 1, 2) // b -> c
	addModuleEdge(g, pairs, 2, 1) // c -> b, closes a cycle with b
	g = buildModuleGraph(modules, pairs)

	comp := tarjanComponents(g)
	violations := layerViolations(g, comp)

	require.Empty(t, violations[g.ids[0]], "a's edge to b is acyclic, not a violation")
	assert.Equal(t, 1, violations[g.ids[1]])
	assert.Equal(t, 1, violations[g.ids[2]])
}
