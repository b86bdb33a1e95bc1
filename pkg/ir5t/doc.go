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

// Package ir5t derives the CHANGE and AUTHORSHIP dimension signals from
// version-control history: per-file churn trajectory, fix ratio, bus
// factor, per-module bus factor, and COCHANGES_WITH edges between files
// that change together. It also materializes the Author and Commit
// entity catalogs, the one stage that does so.
//
// Every computation here is keyed off a pkg/vcs.HistoryProvider. A nil
// provider (or one that fails to list commits) disables the stage
// outright rather than guessing.
package ir5t
