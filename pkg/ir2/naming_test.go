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

package ir2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_ZeroNormIsNotOK(t *testing.T) {
	_, ok := cosineSimilarity(map[string]float64{}, map[string]float64{"a": 1})
	assert.False(t, ok)
}

func TestCosineSimilarity_IdenticalVectorsYieldOne(t *testing.T) {
	v := map[string]float64{"a": 2, "b": 3}
	sim, ok := cosineSimilarity(v, v)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestCosineSimilarity_OrthogonalVectorsYieldZero(t *testing.T) {
	sim, ok := cosineSimilarity(map[string]float64{"a": 1}, map[string]float64{"b": 1})
	assert.True(t, ok)
	assert.InDelta(t, 0.0, sim, 1e-9)
}
