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

// Package ir4 groups files into modules and derives every module-scope
// architecture signal from the cross-module IMPORTS edges: the Martin
// metrics (instability, abstractness, main sequence distance), cohesion
// and coupling, boundary alignment against IR3's Louvain communities,
// role consistency, and layer violation counts from a topological sort
// of the module dependency condensation.
package ir4
