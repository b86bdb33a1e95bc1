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

// Package ir3 turns the IMPORTS relations ir1 wrote into a graph and
// derives every file-scope reference signal from it: degree, PageRank,
// reachability from entry points, orphan status, blast radius, Louvain
// community, and the phantom-import count. It also runs clone detection
// over file content and computes the codebase-scope topology signals
// (modularity, spectral gap, cycle count, centrality inequality, the
// orphan/phantom ratios, and the glue deficit).
package ir3
