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

// Package bootstrap wires a FactStore, a Kernel, and a set of stages into
// a runnable analysis engine. It replaces project-level database
// provisioning: there is no persisted server state between runs, so
// "initializing a project" now means preparing an output directory for
// snapshots and constructing the in-memory substrate a run needs.
package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kraklabs/shannon-insight/pkg/kernel"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// Config holds configuration for bootstrapping a run.
type Config struct {
	// ProjectRoot is the absolute path to the codebase being analyzed.
	ProjectRoot string

	// OutputDir is where TensorSnapshot documents are written. Defaults
	// to <ProjectRoot>/.shannon-insight.
	OutputDir string
}

// Engine is the wired-up substrate a pipeline run executes against: a
// fresh FactStore bound to the default signal registry, and a Kernel
// with every given stage registered and validated.
type Engine struct {
	Store  *store.FactStore
	Kernel *kernel.Kernel
	Config Config
}

// Init validates config, creates the output directory, and constructs an
// Engine with stages registered and its dependency plan validated. This
// is idempotent: calling it multiple times for the same ProjectRoot is
// safe since no persistent state is touched beyond the output directory.
func Init(config Config, stages []kernel.Stage, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if config.ProjectRoot == "" {
		return nil, fmt.Errorf("project_root is required")
	}
	if config.OutputDir == "" {
		config.OutputDir = filepath.Join(config.ProjectRoot, ".shannon-insight")
	}

	logger.Info("bootstrap.engine.init.start",
		"project_root", config.ProjectRoot,
		"output_dir", config.OutputDir,
	)

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	registry, err := store.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("load signal registry: %w", err)
	}

	fs := store.New(registry, logger)
	k := kernel.New(logger)
	for _, s := range stages {
		k.Register(s)
	}
	if err := k.Plan(); err != nil {
		return nil, fmt.Errorf("plan stages: %w", err)
	}

	logger.Info("bootstrap.engine.init.success",
		"project_root", config.ProjectRoot,
		"output_dir", config.OutputDir,
		"stage_count", len(stages),
	)

	return &Engine{Store: fs, Kernel: k, Config: config}, nil
}

// snapshotSuffix is the extension TensorSnapshot documents are written
// with; see pkg/snapshot.
const snapshotSuffix = ".snapshot.json"

// ListSnapshots returns the base names (without suffix) of every
// snapshot previously written to outputDir, most recent run last by
// lexical ordering of the run ID prefix.
func ListSnapshots(outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), snapshotSuffix) {
			names = append(names, strings.TrimSuffix(entry.Name(), snapshotSuffix))
		}
	}
	sort.Strings(names)
	return names, nil
}
