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

package snapshot

import "time"

// Snapshot is one analysis run's lifecycle-annotated finding set, the
// unit §4.8's diff and chronic-amplifier logic operate on. RunID is a
// fresh random UUID per run; ConfigHash is the caller-supplied
// tier/compressor/signal-registry fingerprint described in §6, stored
// as given.
type Snapshot struct {
	RunID      string
	Timestamp  time.Time
	CommitSHA  string
	ConfigHash string
	Findings   []LifecycleFinding
}

// byID returns the snapshot's findings indexed by identity, for diffing.
func (s *Snapshot) byID() map[string]LifecycleFinding {
	out := make(map[string]LifecycleFinding, len(s.Findings))
	for _, f := range s.Findings {
		out[f.ID] = f
	}
	return out
}
