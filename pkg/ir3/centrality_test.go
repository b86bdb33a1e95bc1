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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/shannon-insight/pkg/ir2"
)

func TestPagerank_SumsToOneAndFavorsMostLinkedNode(t *testing.T) {
	// 0 -> 1, 2 -> 1: node 1 is linked by everyone else.
	adj := [][]float64{
		{0, 1, 0},
		{0, 0, 0},
		{0, 1, 0},
	}
	rank := pagerank(adj)

	var sum float64
	for _, r := range rank {
		sum += r
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
	assert.Greater(t, rank[1], rank[0])
	assert.Greater(t, rank[1], rank[2])
}

func TestPagerank_DanglingNodeRedistributesMass(t *testing.T) {
	// node 0 has no outgoing edges at all.
	adj := [][]float64{
		{0, 0},
		{1, 0},
	}
	rank := pagerank(adj)
	var sum float64
	for _, r := range rank {
		sum += r
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
	assert.False(t, math.IsNaN(rank[0]))
}

func TestIsOrphan_ExemptRolesAreNeverOrphans(t *testing.T) {
	assert.False(t, isOrphan(0, string(ir2.RoleEntryPoint)))
	assert.False(t, isOrphan(0, string(ir2.RoleTest)))
	assert.True(t, isOrphan(0, string(ir2.RoleUtility)))
}

func TestIsOrphan_AnyInboundImportMeansNotOrphan(t *testing.T) {
	assert.False(t, isOrphan(1, string(ir2.RoleUtility)))
}
