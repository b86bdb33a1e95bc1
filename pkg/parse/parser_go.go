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

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// TreeSitterParser extracts FileSyntax via an AST walk. One instance is
// safe for sequential reuse across files; tree-sitter parsers are not
// safe for concurrent use, so IR1's worker pool gives each worker its
// own instance.
type TreeSitterParser struct {
	parser *sitter.Parser
}

// NewTreeSitterParser builds a parser configured for Go.
func NewTreeSitterParser() *TreeSitterParser {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &TreeSitterParser{parser: p}
}

func (p *TreeSitterParser) Parse(path, language string, content []byte) (*FileSyntax, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse: tree-sitter: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	fs := &FileSyntax{
		Path:        path,
		Language:    language,
		ParseMode:   ParseModeTreeSitter,
		LOC:         countNonBlankLines(content),
		TODOCount:   countTODOs(content),
		SyntaxError: root.HasError(),
	}

	fs.PackageName = goPackageName(root, content)
	fs.Imports = goImports(root, content)

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "function_declaration", "method_declaration":
			fs.Functions = append(fs.Functions, goFunctionDef(n, content))
		case "type_declaration":
			fs.Types = append(fs.Types, goTypeDefs(n, content)...)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	return fs, nil
}

func goPackageName(root *sitter.Node, content []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "package_clause" {
			if name := child.ChildByFieldName("name"); name != nil {
				return name.Content(content)
			}
		}
	}
	return ""
}

func goImports(root *sitter.Node, content []byte) []ImportDecl {
	var out []ImportDecl
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "import_declaration" {
			continue
		}
		var specs []*sitter.Node
		for j := 0; j < int(child.ChildCount()); j++ {
			c := child.Child(j)
			switch c.Type() {
			case "import_spec":
				specs = append(specs, c)
			case "import_spec_list":
				for k := 0; k < int(c.ChildCount()); k++ {
					if gc := c.Child(k); gc.Type() == "import_spec" {
						specs = append(specs, gc)
					}
				}
			}
		}
		for _, spec := range specs {
			pathNode := spec.ChildByFieldName("path")
			if pathNode == nil {
				continue
			}
			path := strings.Trim(pathNode.Content(content), `"`)
			alias := ""
			if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
				alias = nameNode.Content(content)
			}
			out = append(out, ImportDecl{
				Path:  path,
				Alias: alias,
				Line:  int(spec.StartPoint().Row) + 1,
			})
		}
	}
	return out
}

func goFunctionDef(n *sitter.Node, content []byte) FunctionDef {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(content)
	}
	receiver := n.ChildByFieldName("receiver")
	hasReceiver := receiver != nil
	receiverType := receiverTypeName(receiver, content)

	paramCount := 0
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			if params.Child(i).Type() == "parameter_declaration" {
				paramCount++
			}
		}
	}

	startLine := int(n.StartPoint().Row) + 1
	endLine := int(n.EndPoint().Row) + 1

	bodyEmpty := true
	stmtCount := 0
	maxNesting := 0
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			c := body.Child(i)
			if c.Type() == "{" || c.Type() == "}" || c.Type() == "comment" {
				continue
			}
			stmtCount++
			if !isTrivialStubStatement(c, content) {
				bodyEmpty = false
			}
		}
		if stmtCount == 0 {
			bodyEmpty = true
		}
		maxNesting = maxNestingDepth(body, 0)
	}

	return FunctionDef{
		Name:               name,
		StartLine:          startLine,
		EndLine:            endLine,
		HasReceiver:        hasReceiver,
		ReceiverType:       receiverType,
		ParamCount:         paramCount,
		HasDocComment:      hasPrecedingComment(n, content),
		BodyIsEmpty:        bodyEmpty,
		BodyStatementCount: stmtCount,
		MaxNesting:         maxNesting,
	}
}

// receiverTypeName extracts the pointer-stripped receiver type name from
// a method's receiver parameter list, "" for a free function.
func receiverTypeName(receiver *sitter.Node, content []byte) string {
	if receiver == nil {
		return ""
	}
	for i := 0; i < int(receiver.ChildCount()); i++ {
		c := receiver.Child(i)
		if c.Type() != "parameter_declaration" {
			continue
		}
		t := c.ChildByFieldName("type")
		if t == nil {
			continue
		}
		return strings.TrimPrefix(strings.TrimSpace(t.Content(content)), "*")
	}
	return ""
}

// nestingNodeTypes are the Go AST node kinds that add one level of
// branching/looping depth for cognitive_load (IR2).
var nestingNodeTypes = map[string]bool{
	"if_statement":               true,
	"for_statement":               true,
	"expression_switch_statement": true,
	"type_switch_statement":       true,
	"select_statement":            true,
}

// maxNestingDepth walks n's subtree and returns the deepest nesting
// level reached, starting from depth.
func maxNestingDepth(n *sitter.Node, depth int) int {
	best := depth
	childDepth := depth
	if nestingNodeTypes[n.Type()] {
		childDepth++
		if childDepth > best {
			best = childDepth
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if d := maxNestingDepth(n.Child(i), childDepth); d > best {
			best = d
		}
	}
	return best
}

// isTrivialStubStatement reports whether a body statement is the kind
// that, alone, still counts the function as a stub: a bare return, a
// return of only nil values, or a panic("not implemented")-style call.
// Comments are skipped by the caller before this is consulted.
func isTrivialStubStatement(n *sitter.Node, content []byte) bool {
	switch n.Type() {
	case "return_statement":
		rest := strings.TrimSpace(strings.TrimPrefix(n.Content(content), "return"))
		for _, v := range strings.Split(rest, ",") {
			if v = strings.TrimSpace(v); v != "" && v != "nil" {
				return false
			}
		}
		return true
	case "expression_statement":
		text := strings.ToLower(n.Content(content))
		return strings.Contains(text, "panic(") && (strings.Contains(text, "not implement") || strings.Contains(text, "todo"))
	default:
		return false
	}
}

func goTypeDefs(n *sitter.Node, content []byte) []TypeDef {
	var out []TypeDef
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		name := ""
		if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
			name = nameNode.Content(content)
		}
		kind := "alias"
		if typeNode := spec.ChildByFieldName("type"); typeNode != nil {
			switch typeNode.Type() {
			case "struct_type":
				kind = "struct"
			case "interface_type":
				kind = "interface"
			}
		}
		out = append(out, TypeDef{
			Name:          name,
			Kind:          kind,
			StartLine:     int(spec.StartPoint().Row) + 1,
			EndLine:       int(spec.EndPoint().Row) + 1,
			HasDocComment: hasPrecedingComment(n, content),
		})
	}
	return out
}

// hasPrecedingComment reports whether n's previous sibling is a comment
// immediately above it (a doc comment, Go convention).
func hasPrecedingComment(n *sitter.Node, content []byte) bool {
	prev := n.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return false
	}
	return int(n.StartPoint().Row)-int(prev.EndPoint().Row) <= 1
}
