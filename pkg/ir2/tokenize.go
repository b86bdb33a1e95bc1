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

package ir2

import (
	"strings"
	"unicode"

	"github.com/kraklabs/shannon-insight/pkg/parse"
)

// stopWords drops generic verbs and language keywords/builtins that
// would otherwise dominate every file's token set without distinguishing
// anything (§4.3 "drop language keywords/built-ins/single-characters and
// a stop-list of generic verbs").
var stopWords = map[string]bool{
	"get": true, "set": true, "is": true, "has": true, "do": true,
	"run": true, "make": true, "new": true, "build": true, "create": true,
	"update": true, "delete": true, "add": true, "remove": true,
	"the": true, "a": true, "an": true, "of": true, "to": true, "for": true,
	"and": true, "or": true, "not": true, "if": true, "else": true,
	"func": true, "function": true, "def": true, "var": true, "let": true,
	"const": true, "return": true, "package": true, "import": true,
	"class": true, "struct": true, "interface": true, "type": true,
	"int": true, "string": true, "bool": true, "float": true, "byte": true,
	"err": true, "error": true, "nil": true, "true": true, "false": true,
	"self": true, "this": true, "ctx": true, "context": true,
}

// tokenizeIdentifier splits one identifier into lowercase tokens on
// underscores, camelCase boundaries, and acronym runs (e.g. "HTTPServer"
// -> "http", "server"), then drops stop words and single characters.
func tokenizeIdentifier(ident string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) == 0 {
			return
		}
		words = append(words, string(cur))
		cur = cur[:0]
	}

	// cur retains original case while accumulating so allUpper can tell
	// an acronym run ("HTTP") apart from a capitalized word ("Server");
	// only flush() lowercases into the final token.
	runes := []rune(ident)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r) || unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			startOfAcronymEnd := len(cur) > 0 && allUpper(cur) && nextLower
			if prevLower || startOfAcronymEnd {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()

	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if len(w) <= 1 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

func allUpper(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return len(rs) > 0
}

// identifiersOf pulls every declared name out of a file's syntax tree:
// function names and type names (the package name is not included), the
// corpus ir2 tokenizes for concept extraction and naming drift.
func identifiersOf(syntax *parse.FileSyntax) []string {
	var names []string
	for _, fn := range syntax.Functions {
		names = append(names, fn.Name)
	}
	for _, ty := range syntax.Types {
		names = append(names, ty.Name)
	}
	return names
}
