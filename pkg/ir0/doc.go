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

// Package ir0 walks a project root and turns it into File entities: the
// first stage of the pipeline, and the only one that touches raw bytes.
// Everything downstream works from the FileSyntax and signals later
// stages derive; ir0 itself writes no signals, only the Codebase/File
// entity tree and per-File metadata (language, size, content hash).
package ir0
