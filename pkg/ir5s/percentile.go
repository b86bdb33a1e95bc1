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
	"sort"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// defaultPriorAlpha and defaultPriorBeta are the Beta-posterior priors
// the Bayesian tier uses when a signal doesn't name sharper ones: an
// uninformative Jeffreys-adjacent prior that pulls small-sample
// percentiles toward the middle without the spec naming per-signal
// values (§4.6 only says "signal-specific priors"; this codebase defaults
// every signal to the same uninformative prior until one is tuned).
const (
	defaultPriorAlpha = 1.0
	defaultPriorBeta  = 1.0
)

// PercentileRanks computes pctl(S,f) for every entity of kind that carries
// signal, per the FULL-tier definition in §4.6: |{v: S(v) ≤ S(f)}| / N,
// with tied values sharing a percentile and zero-variance signals
// yielding 0.5 uniformly. Entities missing the signal are absent from the
// result.
func PercentileRanks(fs *store.FactStore, kind store.Kind, signal string) map[store.EntityID]float64 {
	return rankWithPrior(fs, kind, signal, false, 0, 0)
}

// BayesianPercentileRanks regularizes PercentileRanks for small samples
// via a Beta(alpha, beta) posterior: posterior_pctl = (alpha+rank)/(alpha+beta+N).
func BayesianPercentileRanks(fs *store.FactStore, kind store.Kind, signal string, alpha, beta float64) map[store.EntityID]float64 {
	return rankWithPrior(fs, kind, signal, true, alpha, beta)
}

// Percentile dispatches on tier: ABSOLUTE computes no percentiles at all
// (§4.6), BAYESIAN uses the default priors, FULL uses the plain
// empirical rank.
func Percentile(fs *store.FactStore, kind store.Kind, signal string, tier kernel.Tier) map[store.EntityID]float64 {
	switch tier {
	case kernel.TierAbsolute:
		return nil
	case kernel.TierBayesian:
		return BayesianPercentileRanks(fs, kind, signal, defaultPriorAlpha, defaultPriorBeta)
	default:
		return PercentileRanks(fs, kind, signal)
	}
}

func rankWithPrior(fs *store.FactStore, kind store.Kind, signal string, bayesian bool, alpha, beta float64) map[store.EntityID]float64 {
	entities := fs.EntitiesByKind(kind)
	ids := make([]store.EntityID, 0, len(entities))
	values := make([]float64, 0, len(entities))
	for _, e := range entities {
		v, ok := fs.Signal(e.ID, signal)
		if !ok {
			continue
		}
		f, ok := v.Float()
		if !ok {
			continue
		}
		ids = append(ids, e.ID)
		values = append(values, f)
	}
	n := len(values)
	if n == 0 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	zeroVariance := sorted[0] == sorted[n-1]

	out := make(map[store.EntityID]float64, n)
	for i, id := range ids {
		if zeroVariance {
			out[id] = 0.5
			continue
		}
		v := values[i]
		rank := sort.Search(n, func(j int) bool { return sorted[j] > v })
		if bayesian {
			out[id] = (alpha + float64(rank)) / (alpha + beta + float64(n))
		} else {
			out[id] = float64(rank) / float64(n)
		}
	}
	return out
}
