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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/shannon-insight/pkg/parse"
)

func TestClassifyRole_OrderedDecisionTree(t *testing.T) {
	cases := []struct {
		name          string
		path          string
		syntax        *parse.FileSyntax
		hasEntryPoint bool
		want          Role
	}{
		{"test file wins over entry point naming", "pkg/widget/widget_test.go", &parse.FileSyntax{}, false, RoleTest},
		{"migration directory", "db/migrations/0001_init.go", &parse.FileSyntax{}, false, RoleMigration},
		{"entry point flagged by ir1", "cmd/tool/main.go", &parse.FileSyntax{}, true, RoleEntryPoint},
		{"interface-only file", "pkg/store/iface.go", &parse.FileSyntax{Types: []parse.TypeDef{{Name: "Reader", Kind: "interface"}}}, false, RoleInterface},
		{"cli via cobra import", "internal/tool.go", &parse.FileSyntax{Imports: []parse.ImportDecl{{Path: "github.com/spf13/cobra"}}}, false, RoleCLI},
		{"config path", "config/settings.go", &parse.FileSyntax{}, false, RoleConfig},
		{"service path", "internal/service/billing.go", &parse.FileSyntax{}, false, RoleService},
		{"utility path", "pkg/util/strings.go", &parse.FileSyntax{}, false, RoleUtility},
		{"unknown default", "pkg/widget/widget.go", &parse.FileSyntax{}, false, RoleUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyRole(tc.path, tc.syntax, tc.hasEntryPoint)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyRole_AlwaysSetsARole(t *testing.T) {
	got := ClassifyRole("", &parse.FileSyntax{}, false)
	assert.NotEmpty(t, got)
}
