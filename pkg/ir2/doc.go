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

// Package ir2 classifies each file's role, extracts per-file concept
// clusters from corpus-wide identifier statistics, measures naming drift
// between a file's name and its content, and scores completeness
// (docstring coverage, TODO density, compression ratio, semantic
// coherence, cognitive load). It is the first stage that needs a
// corpus-wide pass before any per-file signal can be written: IDF
// weights and the token co-occurrence graph are both built from every
// file ir1 parsed, not just the one being scored.
package ir2
