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

package ir0

import (
	"bytes"
	"path/filepath"
	"strings"
)

// languageByExt maps a lowercased file extension to the language name IR1
// and IR2 key their per-language behavior on.
var languageByExt = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".sh":    "bash",
	".bash":  "bash",
	".zsh":   "bash",
	".proto": "protobuf",
}

// detectLanguage returns the language name for path, or "" if the
// extension isn't recognized (the file is still kept; IR1 falls back to
// the regex parser for unrecognized languages rather than dropping it).
func detectLanguage(path string) string {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}

// sniffLen is how many leading bytes are inspected for a NUL byte when
// deciding whether a file is binary (the same heuristic `file`/git use).
const sniffLen = 8000

// looksBinary reports whether content appears to be binary rather than
// text, by scanning the first sniffLen bytes for a NUL byte (§6: "binary
// detection skips files").
func looksBinary(content []byte) bool {
	n := len(content)
	if n > sniffLen {
		n = sniffLen
	}
	return bytes.IndexByte(content[:n], 0) != -1
}
