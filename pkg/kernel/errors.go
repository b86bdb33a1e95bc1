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

import "fmt"

// ErrorKind classifies a stage failure (per the error taxonomy).
type ErrorKind string

const (
	// ConfigInvalid aborts the run before any stage executes.
	ConfigInvalid ErrorKind = "config_invalid"
	// CollectorFatal aborts the run: IR0 could not establish a file list.
	CollectorFatal ErrorKind = "collector_fatal"
	// FileParseFailure is scoped to a single file; the file is dropped and
	// the stage continues.
	FileParseFailure ErrorKind = "file_parse_failure"
	// StageTimeout means a stage exceeded its budget; the stage is
	// skipped and downstream stages run with whatever was written before
	// the deadline.
	StageTimeout ErrorKind = "stage_timeout"
	// StageDependencyMissing means a stage's required upstream signals
	// were never produced; the stage, and any finder depending on its
	// output, is skipped.
	StageDependencyMissing ErrorKind = "stage_dependency_missing"
	// InvariantViolation is a data-level inconsistency (NaN, out-of-domain
	// value) that the store already clamps and logs; stages report it so
	// the run summary can surface a count.
	InvariantViolation ErrorKind = "invariant_violation"
)

// Fatal reports whether kind should abort the entire run rather than
// degrade to a stage-skip.
func (k ErrorKind) Fatal() bool {
	return k == ConfigInvalid || k == CollectorFatal
}

// StageError wraps a failure with the stage that produced it and its
// classification. Non-fatal kinds are collected by the kernel and
// surfaced in the run summary; fatal kinds propagate out of Execute.
type StageError struct {
	Stage string
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError builds a StageError.
func NewStageError(stage string, kind ErrorKind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}
