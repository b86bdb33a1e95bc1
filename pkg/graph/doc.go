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

// Package graph implements the community-detection algorithms shared by
// ir2 (token co-occurrence communities) and ir3 (import graph
// communities): Louvain clustering and Newman modularity over an
// undirected weighted graph. Nothing in the example corpus pulls in a graph/clustering
// library, so these are hand-rolled rather than grounded on a specific
// third-party dependency.
package graph
