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
	"math"
	"sort"

	"github.com/kraklabs/shannon-insight/pkg/graph"
	"github.com/kraklabs/shannon-insight/pkg/parse"
)

// minUniqueTokensForConcepts is the corpus pass-2 threshold below which
// a file's vocabulary is too thin for a meaningful community structure
// (§4.3: "skip if fewer than 20 unique tokens").
const minUniqueTokensForConcepts = 20

// maxConcepts caps the community count by merging the smallest
// communities into their nearest neighbor until at most this many
// remain.
const maxConcepts = 10

// Concept is one token community extracted from a file's identifier
// vocabulary.
type Concept struct {
	Topic  string
	Tokens []string
	Weight float64
}

// corpusIDF computes idf(t) = log(N / df(t)) over every file's unique
// token set. df(t) counts files, not occurrences — a token mentioned
// fifty times in one file and never elsewhere still has df=1.
func corpusIDF(files []*parse.FileSyntax) map[string]float64 {
	df := map[string]int{}
	for _, syntax := range files {
		seen := map[string]bool{}
		for _, tok := range tokenizeAll(syntax) {
			seen[tok] = true
		}
		for tok := range seen {
			df[tok]++
		}
	}
	n := float64(len(files))
	idf := make(map[string]float64, len(df))
	for tok, count := range df {
		if count == 0 {
			continue
		}
		idf[tok] = math.Log(n / float64(count))
	}
	return idf
}

func tokenizeAll(syntax *parse.FileSyntax) []string {
	var out []string
	for _, name := range identifiersOf(syntax) {
		out = append(out, tokenizeIdentifier(name)...)
	}
	return out
}

// tokenBag is one declaration's token set, the proxy ir2 uses for
// "tokens co-occurring within a function body": parse.FileSyntax
// captures declarations, not body-level identifier references, so
// co-occurrence is approximated from a function's own name plus its
// receiver type (methods on the same type share a token and so pull
// together into the same community) and from each type's own name.
func tokenBags(syntax *parse.FileSyntax) [][]string {
	var bags [][]string
	for _, fn := range syntax.Functions {
		bag := tokenizeIdentifier(fn.Name)
		if fn.ReceiverType != "" {
			bag = append(bag, tokenizeIdentifier(fn.ReceiverType)...)
		}
		if len(bag) > 0 {
			bags = append(bags, dedupe(bag))
		}
	}
	for _, ty := range syntax.Types {
		if bag := dedupe(tokenizeIdentifier(ty.Name)); len(bag) > 0 {
			bags = append(bags, bag)
		}
	}
	return bags
}

func dedupe(tokens []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// extractConcepts builds the per-file token co-occurrence graph, runs
// Louvain community detection, and yields one Concept per surviving
// community plus the corpus entropy of the community weight
// distribution. contentTF is the file's token-frequency map (returned
// even when ok is false, since naming drift wants it independently of
// the concept-extraction threshold) and communities maps token ->
// community id for semantic_coherence's per-function vectors. ok is
// false when the file's vocabulary is too thin (§4.3's
// <20-unique-tokens default path).
func extractConcepts(syntax *parse.FileSyntax, idf map[string]float64) (concepts []Concept, entropy float64, contentTF map[string]int, communities map[string]int, ok bool) {
	bags := tokenBags(syntax)

	unique := map[string]int{} // token -> term frequency across the file
	for _, bag := range bags {
		for _, t := range bag {
			unique[t]++
		}
	}
	contentTF = unique
	if len(unique) < minUniqueTokensForConcepts {
		return nil, 0, contentTF, nil, false
	}

	g := graph.NewGraph()
	edgeWeight := map[[2]string]float64{}
	for _, bag := range bags {
		sort.Strings(bag)
		for i := 0; i < len(bag); i++ {
			g.AddNode(bag[i])
			for j := i + 1; j < len(bag); j++ {
				edgeWeight[[2]string{bag[i], bag[j]}]++
			}
		}
	}
	pruneSingletonEdges := len(edgeWeight) > 100
	for pair, w := range edgeWeight {
		if pruneSingletonEdges && w <= 1 {
			continue
		}
		g.AddEdge(pair[0], pair[1], w)
	}

	communities = graph.Louvain(g, 1.0)
	communities = absorbSingletons(communities, edgeWeight)
	communities = capCommunities(communities, maxConcepts)

	byID := map[int][]string{}
	for tok, id := range communities {
		byID[id] = append(byID[id], tok)
	}

	totalTF := 0
	for _, c := range unique {
		totalTF += c
	}
	if totalTF == 0 {
		return nil, 0, contentTF, communities, false
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		tokens := byID[id]
		sort.Strings(tokens)

		tf := 0
		for _, t := range tokens {
			tf += unique[t]
		}
		weight := float64(tf) / float64(totalTF)

		topic := tokens[0]
		bestScore := -1.0
		for _, t := range tokens {
			score := float64(unique[t]) * idf[t]
			if score > bestScore {
				bestScore = score
				topic = t
			}
		}
		concepts = append(concepts, Concept{Topic: topic, Tokens: tokens, Weight: weight})
	}

	for _, c := range concepts {
		if c.Weight > 0 {
			entropy -= c.Weight * math.Log2(c.Weight)
		}
	}

	return concepts, entropy, contentTF, communities, true
}

// absorbSingletons merges any community left with a single token into
// the neighboring community it shares the heaviest edge with, so a lone
// loosely-connected identifier doesn't inflate the concept count.
func absorbSingletons(communities map[string]int, edgeWeight map[[2]string]float64) map[string]int {
	size := map[int]int{}
	for _, id := range communities {
		size[id]++
	}

	tokens := make([]string, 0, len(communities))
	for t := range communities {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	for _, tok := range tokens {
		if size[communities[tok]] != 1 {
			continue
		}
		bestNeighbor, bestWeight := "", -1.0
		for pair, w := range edgeWeight {
			var other string
			switch {
			case pair[0] == tok:
				other = pair[1]
			case pair[1] == tok:
				other = pair[0]
			default:
				continue
			}
			if w > bestWeight {
				bestWeight = w
				bestNeighbor = other
			}
		}
		if bestNeighbor == "" {
			continue
		}
		oldID := communities[tok]
		newID := communities[bestNeighbor]
		size[oldID]--
		size[newID]++
		communities[tok] = newID
	}
	return communities
}

// capCommunities merges the smallest communities, by token count, into
// the next larger one until at most max remain (§4.3).
func capCommunities(communities map[string]int, max int) map[string]int {
	size := map[int]int{}
	for _, id := range communities {
		size[id]++
	}
	if len(size) <= max {
		return communities
	}

	ids := make([]int, 0, len(size))
	for id := range size {
		ids = append(ids, id)
	}
	for len(ids) > max {
		sort.Slice(ids, func(i, j int) bool {
			if size[ids[i]] != size[ids[j]] {
				return size[ids[i]] < size[ids[j]]
			}
			return ids[i] < ids[j]
		})
		smallest := ids[0]
		target := ids[1]
		for tok, id := range communities {
			if id == smallest {
				communities[tok] = target
			}
		}
		size[target] += size[smallest]
		delete(size, smallest)
		ids = ids[1:]
	}
	return communities
}
