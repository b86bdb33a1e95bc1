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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/minio/highwayhash"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/kraklabs/shannon-insight/internal/contract"
	"github.com/kraklabs/shannon-insight/pkg/store"
)

// hashKey is the fixed HighwayHash key for File.ContentHash. It is not a
// secret; fixing it (rather than randomizing per run) is what makes
// ContentHash comparable across snapshots and across machines (§3: clone
// detection and rename-aware retargeting both depend on a stable hash).
var hashKey = []byte("shannon-insight-content-hash-v1")

// Config controls a discovery walk.
type Config struct {
	// Root is the project root, an absolute or relative filesystem path.
	Root string
	// Include, if non-empty, restricts discovery to paths matching at
	// least one glob. Exclude is checked first and always wins.
	Include []string
	Exclude []string
	// MaxFileSize overrides the soft file-size limit; 0 uses
	// contract.SoftLimitBytes().
	MaxFileSize int64
}

// Result is the outcome of a discovery walk. SkipReasons tallies why a
// candidate path was not turned into a File entity, keyed by reason
// ("excluded", "too_large", "binary", "unreadable").
type Result struct {
	Codebase    store.EntityID
	Files       []store.EntityID
	SkipReasons map[string]int
}

// CountFiles performs a lightweight walk that counts candidate files
// without reading their content, for tier selection during the Collect
// phase (§4.1) before the full Execute run.
func CountFiles(ctx context.Context, cfg Config) (int, error) {
	fs := afs.New()
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return 0, fmt.Errorf("ir0: resolve root: %w", err)
	}

	excludes := append(append([]string{}, defaultExcludes...), cfg.Exclude...)
	n := 0
	visitor := storage.OnVisit(func(_ context.Context, baseURL, parent string, info os.FileInfo, _ io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		relPath, relErr := filepath.Rel(root, filepath.Join(baseURL, parent, info.Name()))
		if relErr != nil {
			return true, nil
		}
		if shouldExclude(relPath, excludes) || !included(relPath, cfg.Include) {
			return true, nil
		}
		n++
		return true, nil
	})
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return 0, fmt.Errorf("ir0: count walk: %w", err)
	}
	return n, nil
}

// Discover walks cfg.Root, creates a Codebase entity plus one File entity
// per surviving candidate, and returns their IDs. Raw bytes are hashed
// and then released; only the hash, size, and language are retained in
// File.Metadata (§5 "Memory discipline": raw file bytes are transient).
func Discover(ctx context.Context, fs *store.FactStore, log *slog.Logger, cfg Config) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("ir0: resolve root: %w", err)
	}

	maxSize := cfg.MaxFileSize
	if maxSize == 0 {
		maxSize = int64(contract.SoftLimitBytes())
	}
	excludes := append(append([]string{}, defaultExcludes...), cfg.Exclude...)

	codebase := &store.Entity{
		ID:   store.NewEntityID(store.KindCodebase, root),
		Kind: store.KindCodebase,
		Key:  root,
	}
	fs.AddEntity(codebase)

	result := &Result{
		Codebase:    codebase.ID,
		SkipReasons: make(map[string]int),
	}

	afsSvc := afs.New()

	visitor := storage.OnVisit(func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}

		fullPath := filepath.Join(baseURL, parent, info.Name())
		relPath, relErr := filepath.Rel(root, fullPath)
		if relErr != nil {
			result.SkipReasons["unreadable"]++
			return true, nil
		}
		relPath = filepath.ToSlash(relPath)

		if shouldExclude(relPath, excludes) || !included(relPath, cfg.Include) {
			result.SkipReasons["excluded"]++
			return true, nil
		}

		if maxSize > 0 && info.Size() > maxSize {
			result.SkipReasons["too_large"]++
			log.Warn("ir0.skip_large_file", "path", relPath, "size", info.Size(), "limit", maxSize)
			return true, nil
		}

		var content []byte
		var readErr error
		if reader != nil {
			content, readErr = io.ReadAll(reader)
		} else {
			content, readErr = afsSvc.DownloadWithURL(ctx, fullPath)
		}
		if readErr != nil {
			result.SkipReasons["unreadable"]++
			log.Warn("ir0.read_error", "path", relPath, "err", readErr)
			return true, nil
		}

		if looksBinary(content) {
			result.SkipReasons["binary"]++
			return true, nil
		}

		hasher, hashErr := highwayhash.New64(hashKey)
		if hashErr != nil {
			return false, fmt.Errorf("ir0: init hasher: %w", hashErr)
		}
		hasher.Write(content)
		contentHash := hasher.Sum64()

		file := &store.Entity{
			ID:     store.NewEntityID(store.KindFile, relPath),
			Kind:   store.KindFile,
			Key:    relPath,
			Parent: codebase.ID,
			Metadata: map[string]any{
				"language":     detectLanguage(relPath),
				"size":         info.Size(),
				"content_hash": contentHash,
			},
		}
		fs.AddEntity(file)
		result.Files = append(result.Files, file.ID)

		return true, nil
	})

	if err := afsSvc.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("ir0: walk: %w", err)
	}

	log.Info("ir0.discover.complete",
		"files", len(result.Files),
		"excluded", result.SkipReasons["excluded"],
		"binary", result.SkipReasons["binary"],
		"too_large", result.SkipReasons["too_large"],
	)

	return result, nil
}

// included reports whether relPath matches at least one include glob, or
// true when includes is empty (no restriction).
func included(relPath string, includes []string) bool {
	if len(includes) == 0 {
		return true
	}
	for _, pattern := range includes {
		if matchesGlob(relPath, pattern) {
			return true
		}
	}
	return false
}
