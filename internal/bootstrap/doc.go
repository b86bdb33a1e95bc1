// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bootstrap wires up a runnable Engine: a FactStore bound to the
// default signal registry, plus a Kernel with the caller's stages
// registered and dependency-checked.
//
// # Initialization Workflow
//
//	engine, err := bootstrap.Init(bootstrap.Config{
//	    ProjectRoot: "/path/to/repo",
//	}, stages, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := engine.Kernel.Execute(ctx, engine.Store, kernel.SelectTier(fileCount))
//
// # Idempotency
//
// Init is idempotent: calling it multiple times for the same
// ProjectRoot is safe, since the only persistent side effect is creating
// the output directory.
//
// # Configuration
//
//   - ProjectRoot: Required. The codebase being analyzed.
//   - OutputDir: Optional. Where TensorSnapshot documents are written.
//     Defaults to <ProjectRoot>/.shannon-insight.
//
// # Snapshot Discovery
//
// List previously written snapshots in a project's output directory:
//
//	names, err := bootstrap.ListSnapshots(engine.Config.OutputDir)
//	for _, name := range names {
//	    fmt.Println(name)
//	}
package bootstrap
