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

package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/kraklabs/shannon-insight/pkg/ir6"
	"github.com/kraklabs/shannon-insight/pkg/vcs"
)

// renameSimilarityThreshold is the "typically 50%" bound (§6) below which
// a version-control rename detection is too weak to trust for retargeting
// a finding's identity.
const renameSimilarityThreshold = 0.5

// Identity computes a finding's stable id: SHA-256(type||'|'||sorted(targets)),
// truncated to its first 16 hex characters. Targets are joined with a
// comma after sorting, so a FILE_PAIR finding's id is invariant under
// which target was passed as A and which as B.
func Identity(f ir6.Finding) string {
	targets := append([]string(nil), f.Targets...)
	sort.Strings(targets)
	payload := f.Type + "|" + strings.Join(targets, ",")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])[:16]
}

// RetargetRenames rewrites every finding's targets using renames with at
// least renameSimilarityThreshold confidence, before identity is computed
// for diffing. Findings untouched by any rename are returned unchanged.
func RetargetRenames(findings []ir6.Finding, renames []vcs.Rename) []ir6.Finding {
	renameMap := make(map[string]string, len(renames))
	for _, r := range renames {
		if r.Similarity >= renameSimilarityThreshold {
			renameMap[r.From] = r.To
		}
	}
	if len(renameMap) == 0 {
		return findings
	}
	out := make([]ir6.Finding, len(findings))
	for i, f := range findings {
		targets := make([]string, len(f.Targets))
		changed := false
		for j, tgt := range f.Targets {
			if to, ok := renameMap[tgt]; ok {
				targets[j] = to
				changed = true
			} else {
				targets[j] = tgt
			}
		}
		if changed {
			sort.Strings(targets)
			f.Targets = targets
		}
		out[i] = f
	}
	return out
}
