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

// Package snapshot sits above pkg/ir6: it assigns every finding a stable
// identity, retargets that identity across version-control renames, and
// tracks a finding's lifecycle (first_seen, persistence_count, trend,
// regression) across a run-to-run History. It also computes the
// CHRONIC_PROBLEM amplifier for findings that persist across snapshots
// and the SnapshotDiff used to report debt_velocity between two runs.
//
// A History is the only stateful piece: it remembers, per finding id,
// when it was first seen and how many consecutive snapshots it has
// survived. Everything else here is a pure function of its inputs.
package snapshot
