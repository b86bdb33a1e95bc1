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

// Package contract provides the numeric invariants shared across the
// pipeline: file-size limits for IR0, and composite-score clamping for
// IR5s and IR6.
//
// # File Size Limits
//
// IR0 enforces a soft limit on the files it fully reads and parses, to
// avoid stalling discovery on an enormous vendored asset:
//
//	result := contract.ValidateFileSize(info.Size())
//	if !result.OK {
//	    // record path/size/hash only, skip parsing
//	}
//
// Configurable via the SHANNON_INSIGHT_SOFT_LIMIT_BYTES environment
// variable; defaults to 4 MiB.
//
// # Composite Score Clamping
//
// Every composite score (risk_score, health_score, wiring_quality, ...)
// is declared against the unit interval. ClampUnit enforces that
// declaration at the point of computation, reporting whether the raw
// value needed clamping so the caller can log an InvariantViolation:
//
//	score, violated := contract.ClampUnit(raw)
//	if violated {
//	    log.Warn("composite out of domain", "raw", raw)
//	}
package contract
