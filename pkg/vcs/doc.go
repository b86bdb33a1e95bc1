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

// Package vcs declares the version-control history boundary IR5t
// consumes: an abstract HistoryProvider plus the commit/rename shapes it
// returns. The engine never parses a real repository itself — that is a
// caller-supplied collaborator — so this package also carries a
// FixtureProvider for tests and a NullProvider for the "no history
// available" case.
package vcs
