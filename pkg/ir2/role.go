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
	"path"
	"regexp"
	"strings"

	"github.com/kraklabs/shannon-insight/pkg/parse"
)

// Role is a file's functional category, the first classification IR2
// produces; every downstream stage that cares about "is this orphan
// actually a test fixture" reads it back from Entity.Metadata.
type Role string

const (
	RoleTest        Role = "TEST"
	RoleMigration   Role = "MIGRATION"
	RoleEntryPoint  Role = "ENTRY_POINT"
	RoleInterface   Role = "INTERFACE"
	RoleConstant    Role = "CONSTANT"
	RoleException   Role = "EXCEPTION"
	RoleModel       Role = "MODEL"
	RoleCLI         Role = "CLI"
	RoleConfig      Role = "CONFIG"
	RoleService     Role = "SERVICE"
	RoleUtility     Role = "UTILITY"
	RoleUnknown     Role = "UNKNOWN"
)

var migrationName = regexp.MustCompile(`^(\d{4,}|v\d+)[-_]`)

// ClassifyRole runs the strictly ordered decision tree: first match
// wins, and every file gets a role (RoleUnknown is the catch-all).
// hasEntryPoint is IR1's `func main()` detection passed through so IR2
// doesn't need to re-walk the AST to answer the same question.
func ClassifyRole(relPath string, syntax *parse.FileSyntax, hasEntryPoint bool) Role {
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	lowerPath := strings.ToLower(relPath)
	lowerStem := strings.ToLower(stem)

	switch {
	case isTest(lowerPath, lowerStem):
		return RoleTest
	case isMigration(lowerPath, lowerStem):
		return RoleMigration
	case hasEntryPoint || lowerStem == "main" || lowerStem == "__main__" || lowerStem == "index":
		return RoleEntryPoint
	case isInterface(lowerPath, lowerStem, syntax):
		return RoleInterface
	case isConstant(lowerPath, lowerStem, syntax):
		return RoleConstant
	case isException(lowerPath, lowerStem, syntax):
		return RoleException
	case isModel(lowerPath, syntax):
		return RoleModel
	case isCLI(lowerPath, lowerStem, syntax):
		return RoleCLI
	case isConfig(lowerPath, lowerStem):
		return RoleConfig
	case isService(lowerPath, lowerStem):
		return RoleService
	case isUtility(lowerPath, lowerStem):
		return RoleUtility
	default:
		return RoleUnknown
	}
}

func isTest(lowerPath, stem string) bool {
	if strings.HasSuffix(stem, "_test") || strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, "_spec") {
		return true
	}
	if strings.HasPrefix(stem, "test_") {
		return true
	}
	return containsSegment(lowerPath, "test", "tests", "spec", "specs", "__tests__")
}

func isMigration(lowerPath, stem string) bool {
	if containsSegment(lowerPath, "migration", "migrations", "migrate") {
		return true
	}
	return migrationName.MatchString(stem)
}

func isInterface(lowerPath, stem string, syntax *parse.FileSyntax) bool {
	if strings.Contains(stem, "interface") {
		return true
	}
	if syntax == nil || len(syntax.Types) == 0 {
		return false
	}
	interfaces := 0
	for _, ty := range syntax.Types {
		if ty.Kind == "interface" {
			interfaces++
		}
	}
	return interfaces > 0 && interfaces == len(syntax.Types) && len(syntax.Functions) == 0
}

func isConstant(lowerPath, stem string, syntax *parse.FileSyntax) bool {
	if containsSegment(lowerPath, "const", "constants", "enum", "enums") {
		return true
	}
	return syntax != nil && allCapsRatio(syntax) >= 0.6 && len(syntax.Functions) == 0
}

func isException(lowerPath, stem string, syntax *parse.FileSyntax) bool {
	if strings.Contains(stem, "error") || strings.Contains(stem, "exception") {
		return true
	}
	if syntax == nil {
		return false
	}
	for _, ty := range syntax.Types {
		lower := strings.ToLower(ty.Name)
		if strings.HasSuffix(lower, "error") || strings.HasSuffix(lower, "exception") {
			return true
		}
	}
	return false
}

func isModel(lowerPath string, syntax *parse.FileSyntax) bool {
	if !containsSegment(lowerPath, "model", "models", "entity", "entities", "schema", "schemas", "dto", "types") {
		return false
	}
	return syntax == nil || len(syntax.Types) >= len(syntax.Functions)
}

func isCLI(lowerPath, stem string, syntax *parse.FileSyntax) bool {
	if containsSegment(lowerPath, "cmd", "cli", "command", "commands") {
		return true
	}
	if syntax == nil {
		return false
	}
	for _, imp := range syntax.Imports {
		lower := strings.ToLower(imp.Path)
		if strings.Contains(lower, "pflag") || strings.Contains(lower, "cobra") || strings.Contains(lower, "flag") || strings.Contains(lower, "argparse") || strings.Contains(lower, "click") {
			return true
		}
	}
	return false
}

func isConfig(lowerPath, stem string) bool {
	return containsSegment(lowerPath, "config", "configs", "settings", "conf") || strings.Contains(stem, "config") || strings.Contains(stem, "settings")
}

func isService(lowerPath, stem string) bool {
	if containsSegment(lowerPath, "service", "services", "handler", "handlers", "server", "api", "controller", "controllers") {
		return true
	}
	return strings.HasSuffix(stem, "service") || strings.HasSuffix(stem, "server") || strings.HasSuffix(stem, "handler")
}

func isUtility(lowerPath, stem string) bool {
	if containsSegment(lowerPath, "util", "utils", "helper", "helpers", "common", "lib") {
		return true
	}
	return strings.Contains(stem, "util") || strings.Contains(stem, "helper")
}

func containsSegment(lowerPath string, segments ...string) bool {
	parts := strings.Split(lowerPath, "/")
	for _, p := range parts {
		stem := strings.TrimSuffix(p, path.Ext(p))
		for _, seg := range segments {
			if stem == seg {
				return true
			}
		}
	}
	return false
}

// allCapsRatio approximates "ALL_CAPS assignment ratio" from declared
// types standing in for top-level bindings, since FileSyntax doesn't
// track free-standing variable assignments: the fraction of type names
// that are themselves written in SCREAMING_SNAKE_CASE.
func allCapsRatio(syntax *parse.FileSyntax) float64 {
	if len(syntax.Types) == 0 {
		return 0
	}
	caps := 0
	for _, ty := range syntax.Types {
		if isScreamingSnake(ty.Name) {
			caps++
		}
	}
	return float64(caps) / float64(len(syntax.Types))
}

func isScreamingSnake(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r == '_' {
			continue
		}
		if r < 'A' || r > 'Z' {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return strings.ToUpper(name) == name
}
