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

// Package ir1 runs pkg/parse over every file ir0 discovered, writes the
// file-scoped SIZE/SHAPE signals a syntactic pass can produce on its
// own (loc, function_count, stub_ratio), flags entry points, and
// resolves each file's imports into IMPORTS relations against the rest
// of the codebase.
package ir1
