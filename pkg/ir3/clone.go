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

package ir3

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/kraklabs/shannon-insight/pkg/store"
)

const (
	minHashFuncs = 128
	shingleSize  = 5
	lshBands     = 16
	lshRows      = minHashFuncs / lshBands
	cloneNCDMax  = 0.3
)

// hashSeeds are the 128 universal-hash coefficient pairs MinHash
// signatures are built from. Derived once from a fixed splitmix64
// stream rather than math/rand, so a signature computed today matches
// one computed tomorrow on the same content (§8 determinism) without
// depending on a process-global seed.
var hashSeeds = buildHashSeeds()

func splitMix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func buildHashSeeds() [minHashFuncs][2]uint64 {
	var seeds [minHashFuncs][2]uint64
	state := uint64(0xD1B54A32D192ED03)
	for i := range seeds {
		state = splitMix64(state)
		a := state | 1 // odd multiplier keeps the hash bijective mod 2^64
		state = splitMix64(state)
		seeds[i] = [2]uint64{a, state}
	}
	return seeds
}

// shingleHashes breaks content into overlapping shingleSize-token
// windows and returns each window's FNV-1a hash. Files with fewer
// tokens than one shingle still get a single hash over everything they
// have, so very small files remain comparable instead of signature-less.
func shingleHashes(content []byte) []uint64 {
	fields := strings.Fields(string(content))
	if len(fields) == 0 {
		return nil
	}
	if len(fields) < shingleSize {
		return []uint64{fnvHash(strings.Join(fields, " "))}
	}
	out := make([]uint64, 0, len(fields)-shingleSize+1)
	for i := 0; i+shingleSize <= len(fields); i++ {
		out = append(out, fnvHash(strings.Join(fields[i:i+shingleSize], " ")))
	}
	return out
}

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// minHashSignature computes the 128-lane MinHash signature for a
// file's shingle set. An empty file gets the all-max-uint64 signature,
// which only collides with another empty file.
func minHashSignature(content []byte) []uint64 {
	sig := make([]uint64, minHashFuncs)
	for i := range sig {
		sig[i] = ^uint64(0)
	}
	for _, s := range shingleHashes(content) {
		for i, seed := range hashSeeds {
			h := seed[0]*s + seed[1]
			if h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig
}

// bandKey hashes one lshRows-wide band of a MinHash signature into a
// single bucket key; two files landing in the same bucket for any band
// become clone candidates.
func bandKey(sig []uint64, band int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for r := 0; r < lshRows; r++ {
		binary.LittleEndian.PutUint64(buf[:], sig[band*lshRows+r])
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func signatureDigest(sig []uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range sig {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

type clonePair struct {
	a, b store.EntityID
}

// candidatePairsFromSignatures buckets every file's MinHash signature
// by LSH band and returns every pair that shares at least one bucket,
// deduplicated. A bloom.Filter flags probable signature-digest repeats
// so files whose full 128-lane signatures are equal are paired directly
// from the digest index; every file still goes through the band pass
// as well.
func candidatePairsFromSignatures(ids []store.EntityID, sigs map[store.EntityID][]uint64) []clonePair {
	n := len(ids)
	if n < 2 {
		return nil
	}

	filter := bloom.NewWithEstimates(uint(n+1), 0.01)
	exact := map[uint64][]store.EntityID{}
	pairSet := map[clonePair]bool{}

	addPair := func(a, b store.EntityID) {
		if a == b {
			return
		}
		if b < a {
			a, b = b, a
		}
		pairSet[clonePair{a, b}] = true
	}

	for _, id := range ids {
		digest := signatureDigest(sigs[id])
		var key [8]byte
		binary.LittleEndian.PutUint64(key[:], digest)
		if filter.Test(key[:]) {
			for _, other := range exact[digest] {
				addPair(other, id)
			}
		} else {
			filter.Add(key[:])
		}
		exact[digest] = append(exact[digest], id)
	}

	for band := 0; band < lshBands; band++ {
		buckets := map[uint64][]store.EntityID{}
		for _, id := range ids {
			k := bandKey(sigs[id], band)
			buckets[k] = append(buckets[k], id)
		}
		for _, bucket := range buckets {
			if len(bucket) < 2 {
				continue
			}
			sort.Slice(bucket, func(i, j int) bool { return bucket[i] < bucket[j] })
			for i := 0; i < len(bucket); i++ {
				for j := i + 1; j < len(bucket); j++ {
					addPair(bucket[i], bucket[j])
				}
			}
		}
	}

	out := make([]clonePair, 0, len(pairSet))
	for p := range pairSet {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].a != out[j].a {
			return out[i].a < out[j].a
		}
		return out[i].b < out[j].b
	})
	return out
}

func compressedLen(b []byte) int {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return len(b)
	}
	if _, err := w.Write(b); err != nil {
		return len(b)
	}
	if err := w.Close(); err != nil {
		return len(b)
	}
	return buf.Len()
}

// normalizedCompressionDistance computes NCD(a,b) using flate as the
// deterministic compressor stand-in for an ideal Kolmogorov complexity
// estimator: two near-identical files compress much better
// concatenated than the sum of their individual compressed sizes.
func normalizedCompressionDistance(a, b []byte) float64 {
	ca, cb := compressedLen(a), compressedLen(b)
	combined := make([]byte, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	cab := compressedLen(combined)

	minC, maxC := ca, cb
	if cb < ca {
		minC, maxC = cb, ca
	}
	if maxC == 0 {
		return 0
	}
	return float64(cab-minC) / float64(maxC)
}

// detectClones reads every file's content, builds MinHash/LSH
// candidate pairs, scores each with NCD, and emits a CLONED_FROM
// relation for every pair under cloneNCDMax (§4.4).
func detectClones(fs *store.FactStore, root string, files []*store.Entity) {
	content := make(map[store.EntityID][]byte, len(files))
	sigs := make(map[store.EntityID][]uint64, len(files))
	ids := make([]store.EntityID, 0, len(files))

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Key)))
		if err != nil {
			continue
		}
		content[f.ID] = data
		sigs[f.ID] = minHashSignature(data)
		ids = append(ids, f.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, pair := range candidatePairsFromSignatures(ids, sigs) {
		a, b := content[pair.a], content[pair.b]
		if len(a) == 0 || len(b) == 0 {
			continue
		}
		ncd := normalizedCompressionDistance(a, b)
		if ncd >= cloneNCDMax {
			continue
		}
		fs.AddRelation(store.Relation{
			Type:   store.RelClonedFrom,
			From:   pair.a,
			To:     pair.b,
			Weight: 1 - ncd,
		})
	}
}
