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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedComposite_AllPresentIsWeightedMean(t *testing.T) {
	score, ok := weightedComposite(
		term{weight: 1, value: 1.0, present: true},
		term{weight: 1, value: 0.0, present: true},
	)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestWeightedComposite_MissingTermsAreDroppedAndRenormalized(t *testing.T) {
	withMissing, ok := weightedComposite(
		term{weight: 1, value: 1.0, present: true},
		term{weight: 1, value: 0.0, present: false},
	)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, withMissing, 1e-9, "the missing term's weight is excluded, not treated as zero")
}

func TestWeightedComposite_AllMissingIsNotOK(t *testing.T) {
	_, ok := weightedComposite(
		term{weight: 1, value: 1.0, present: false},
		term{weight: 2, value: 0.5, present: false},
	)
	assert.False(t, ok)
}

func TestWeightedComposite_ClampsOutOfRangeResult(t *testing.T) {
	score, ok := weightedComposite(term{weight: 1, value: 1.5, present: true})
	assert.True(t, ok)
	assert.Equal(t, 1.0, score)

	score, ok = weightedComposite(term{weight: 1, value: -0.5, present: true})
	assert.True(t, ok)
	assert.Equal(t, 0.0, score)
}
