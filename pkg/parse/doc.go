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

// Package parse turns source bytes into a FileSyntax: the function,
// type, import, and comment inventory IR1 builds its File signals from.
//
// Two implementations satisfy CodeParser: a tree-sitter-backed Go parser
// (accurate, AST-based) and a regex-based fallback used for every other
// language and for any file the Go parser fails on. A FileSyntax's
// ParseMode field records which one produced it, so IR2's completeness
// signals can be interpreted knowing their provenance.
package parse
