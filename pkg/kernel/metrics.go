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

package kernel

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsKernel holds the Prometheus metrics for stage orchestration.
type metricsKernel struct {
	once sync.Once

	stagesRun      *prometheus.CounterVec
	stagesSkipped  *prometheus.CounterVec
	stagesTimedOut *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	invariantHits  prometheus.Counter
	breakerTrips   *prometheus.CounterVec
}

var kernMetrics metricsKernel

func (m *metricsKernel) init() {
	m.once.Do(func() {
		m.stagesRun = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shannon_insight_stage_runs_total", Help: "Stage executions by stage name",
		}, []string{"stage"})
		m.stagesSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shannon_insight_stage_skipped_total", Help: "Stage executions skipped, by reason",
		}, []string{"stage", "reason"})
		m.stagesTimedOut = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shannon_insight_stage_timeouts_total", Help: "Stage executions that exceeded their timeout",
		}, []string{"stage"})
		m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shannon_insight_stage_duration_seconds",
			Help:    "Stage execution duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"})
		m.invariantHits = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shannon_insight_invariant_violations_total", Help: "Out-of-domain signal values clamped",
		})
		m.breakerTrips = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shannon_insight_circuit_breaker_trips_total", Help: "Stage circuit breaker state transitions to open",
		}, []string{"stage"})

		prometheus.MustRegister(
			m.stagesRun, m.stagesSkipped, m.stagesTimedOut,
			m.stageDuration, m.invariantHits, m.breakerTrips,
		)
	})
}

func recordStageRun(stage string)              { kernMetrics.init(); kernMetrics.stagesRun.WithLabelValues(stage).Inc() }
func recordStageSkipped(stage, reason string) {
	kernMetrics.init()
	kernMetrics.stagesSkipped.WithLabelValues(stage, reason).Inc()
}
func recordStageTimeout(stage string) {
	kernMetrics.init()
	kernMetrics.stagesTimedOut.WithLabelValues(stage).Inc()
}
func recordStageDuration(stage string, seconds float64) {
	kernMetrics.init()
	kernMetrics.stageDuration.WithLabelValues(stage).Observe(seconds)
}
func recordBreakerTrip(stage string) {
	kernMetrics.init()
	kernMetrics.breakerTrips.WithLabelValues(stage).Inc()
}
