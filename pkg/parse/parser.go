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

package parse

// CodeParser parses one file's content into a FileSyntax.
type CodeParser interface {
	Parse(path, language string, content []byte) (*FileSyntax, error)
}

// languagesWithTreeSitterSupport lists languages the Go parser can
// handle via tree-sitter. Every other detected language falls back to
// the regex parser.
var languagesWithTreeSitterSupport = map[string]bool{
	"go": true,
}

// AutoParser picks the tree-sitter parser when the language has grammar
// support, the regex parser otherwise, and falls back to the regex
// parser if tree-sitter itself errors on a supposedly-supported file
// (§7 FileParseFailure: degrade to a best-effort result, never drop the
// file).
type AutoParser struct {
	treeSitter *TreeSitterParser
	fallback   *RegexParser
}

// NewAutoParser builds an AutoParser.
func NewAutoParser() *AutoParser {
	return &AutoParser{
		treeSitter: NewTreeSitterParser(),
		fallback:   NewRegexParser(),
	}
}

func (p *AutoParser) Parse(path, language string, content []byte) (*FileSyntax, error) {
	if languagesWithTreeSitterSupport[language] {
		fs, err := p.treeSitter.Parse(path, language, content)
		if err == nil {
			return fs, nil
		}
	}
	return p.fallback.Parse(path, language, content)
}

var _ CodeParser = (*AutoParser)(nil)
var _ CodeParser = (*TreeSitterParser)(nil)
var _ CodeParser = (*RegexParser)(nil)
