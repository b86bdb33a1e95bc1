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

// Package ir6 is the finder engine: a fixed catalog of Patterns, each a
// predicate over signals and relations a prior stage wrote into the fact
// store, evaluated against every candidate target of the pattern's scope
// to produce a ranked list of Findings.
//
// A Pattern never mutates the fact store — it only reads. Findings are
// not fact-store signals; Stage.Run collects them onto the Stage value
// itself (Findings) for the caller to hand to the snapshot/diff layer,
// since kernel.Stage.Run's signature has no return channel of its own.
package ir6
