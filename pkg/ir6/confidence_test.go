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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarginHighIsBad_ScalesLinearlyAboveThreshold(t *testing.T) {
	c := marginHighIsBad(0.95, 0.90)
	assert.InDelta(t, 0.5, c.margin, 1e-9)
	assert.True(t, c.satisfied())
}

func TestMarginHighIsBad_BelowThresholdIsUnsatisfied(t *testing.T) {
	c := marginHighIsBad(0.5, 0.90)
	assert.Equal(t, 0.0, c.margin)
	assert.False(t, c.satisfied())
}

func TestMarginHighIsBad_ThresholdAtOneIsBoolean(t *testing.T) {
	assert.Equal(t, 1.0, marginHighIsBad(2.0, 1.0).margin)
	assert.Equal(t, 1.0, marginHighIsBad(1.0, 1.0).margin)
	assert.Equal(t, 0.0, marginHighIsBad(0.99, 1.0).margin)
}

func TestMarginHighIsGood_ScalesLinearlyBelowThreshold(t *testing.T) {
	c := marginHighIsGood(0.10, 0.20)
	assert.InDelta(t, 0.5, c.margin, 1e-9)
}

func TestMarginHighIsGood_AboveThresholdIsUnsatisfied(t *testing.T) {
	c := marginHighIsGood(0.25, 0.20)
	assert.False(t, c.satisfied())
}

func TestMaxMargin_IsDisjunction(t *testing.T) {
	got := maxMargin(condition{margin: 0.2}, condition{margin: 0.9}, condition{margin: 0.1})
	assert.Equal(t, 0.9, got.margin)
}

func TestMeanMargin_IsConjunction(t *testing.T) {
	got := meanMargin(condition{margin: 1.0}, condition{margin: 0.5}, condition{margin: 0.0})
	assert.InDelta(t, 0.5, got.margin, 1e-9)
}

func TestFindingConfidence_IsMeanOfConditions(t *testing.T) {
	got := findingConfidence(condition{margin: 1.0}, condition{margin: 0.6})
	assert.InDelta(t, 0.8, got, 1e-9)
}

func TestAdjustedSeverity_ClampsAmplifierToHalfToOne(t *testing.T) {
	// mean margin 0.0 should still floor the amplifier at 0.5.
	got := adjustedSeverity(0.8, condition{margin: 0.0})
	assert.InDelta(t, 0.4, got, 1e-9)
}

func TestAdjustedSeverity_FullMarginUsesBaseSeverityUnscaled(t *testing.T) {
	got := adjustedSeverity(0.8, condition{margin: 1.0})
	assert.InDelta(t, 0.8, got, 1e-9)
}

func TestAdjustedSeverity_ClampsResultToUnitInterval(t *testing.T) {
	got := adjustedSeverity(2.0, condition{margin: 1.0})
	assert.Equal(t, 1.0, got)
}
