// Package queryengine implements the four-stage search procedure from
// spec §4.4: candidate gathering (cacheable via lrucache), should-scoring,
// sorting, and the edit-distance filter with phrase-id de-duplication and
// quota.
package queryengine

import (
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/blaa/fuzzdex/constraintindex"
	"github.com/blaa/fuzzdex/lrucache"
	"github.com/blaa/fuzzdex/normalize"
	"github.com/blaa/fuzzdex/phrasestore"
	"github.com/blaa/fuzzdex/trigramindex"
)

// ShouldWeight is the multiplier applied to a should-token's trigram score
// relative to the must-token's base unit (spec §4.4: "1.25x the base
// unit so should-matches rank slightly above baseline must matches of
// equal rarity").
const ShouldWeight = 1.25

// Hit is one ranked search result (spec §6 hit layout).
type Hit struct {
	Original    string
	Index       int32
	Token       string
	Distance    int
	Score       float64
	ShouldScore float64
}

// Params bundles the arguments of spec §4.4's search operation.
type Params struct {
	MustToken     string
	ShouldTokens  []string
	MaxDistance   int
	HasMaxDist    bool
	Limit         int
	Constraint    int32
	HasConstraint bool
}

// scoredCandidate is a Stage 1-3 candidate carrying its cumulative score.
type scoredCandidate struct {
	phraseID    int32
	tokenIndex  int32
	tokenLen    int32
	baseScore   float64
	shouldScore float64
}

// Search runs the full pipeline against the given indices and store. The
// must-cache is consulted for Stage 1 and populated on a miss.
func Search(store *phrasestore.Store, trigrams *trigramindex.Index, constraints *constraintindex.Index, cache *lrucache.Cache, p Params) []Hit {
	mustTokens := normalize.Normalize(p.MustToken)
	if len(mustTokens) == 0 {
		return nil
	}
	must := mustTokens[0] // spec: only the first token of the must-string is consulted

	cacheKey := lrucache.Key{Must: must, Constraint: p.Constraint, HasConstraint: p.HasConstraint}

	candidates := cache.GetOrCompute(cacheKey, func() []lrucache.Candidate {
		return gatherCandidates(trigrams, must)
	})
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = scoredCandidate{
			phraseID:   c.PhraseID,
			tokenIndex: c.TokenIndex,
			tokenLen:   c.TokenLen,
			baseScore:  c.BaseScore,
		}
	}

	// Stage 2: should-scoring. Should-tokens never introduce new
	// candidates, only reweight existing ones.
	applyShouldScoring(trigrams, scored, p.ShouldTokens)

	// Stage 3: sort by total score descending, tie-break by phrase-id asc.
	sort.SliceStable(scored, func(i, j int) bool {
		ti := scored[i].baseScore + scored[i].shouldScore
		tj := scored[j].baseScore + scored[j].shouldScore
		if ti != tj {
			return ti > tj
		}
		return scored[i].phraseID < scored[j].phraseID
	})

	// Stage 4: constraint filter, edit-distance filter, phrase-id
	// de-duplication, quota.
	return collectHits(store, constraints, scored, must, p)
}

func gatherCandidates(trigrams *trigramindex.Index, must string) []lrucache.Candidate {
	type key struct {
		phraseID   int32
		tokenIndex int32
	}
	acc := make(map[key]*lrucache.Candidate)

	for _, tg := range normalize.Trigrams(must) {
		postings, score, ok := trigrams.Lookup(tg)
		if !ok {
			continue
		}
		for _, post := range postings {
			k := key{post.PhraseID, post.TokenIndex}
			c, exists := acc[k]
			if !exists {
				c = &lrucache.Candidate{PhraseID: post.PhraseID, TokenIndex: post.TokenIndex, TokenLen: post.TokenLen}
				acc[k] = c
			}
			c.BaseScore += score
		}
	}

	if len(acc) == 0 {
		return nil
	}

	out := make([]lrucache.Candidate, 0, len(acc))
	for _, c := range acc {
		out = append(out, *c)
	}
	return out
}

func applyShouldScoring(trigrams *trigramindex.Index, scored []scoredCandidate, shoulds []string) {
	if len(shoulds) == 0 {
		return
	}

	// A should-token trigram found anywhere in a candidate's phrase adds to
	// that candidate, so a should-token may match a different token of the
	// phrase than the must-token did.
	index := make(map[int32][]*scoredCandidate, len(scored))
	for i := range scored {
		index[scored[i].phraseID] = append(index[scored[i].phraseID], &scored[i])
	}

	for _, should := range shoulds {
		shouldTokens := normalize.Normalize(should)
		for _, token := range shouldTokens {
			for _, tg := range normalize.Trigrams(token) {
				postings, score, ok := trigrams.Lookup(tg)
				if !ok {
					continue
				}
				for _, post := range postings {
					// should-tokens never introduce new candidates
					for _, c := range index[post.PhraseID] {
						c.shouldScore += score * ShouldWeight
					}
				}
			}
		}
	}
}

func collectHits(store *phrasestore.Store, constraints *constraintindex.Index, scored []scoredCandidate, must string, p Params) []Hit {
	if p.Limit <= 0 {
		return nil
	}

	hits := make([]Hit, 0, p.Limit)
	emitted := make(map[int32]struct{})
	mustLen := int32(len([]rune(must)))

	for _, c := range scored {
		if len(hits) >= p.Limit {
			break
		}
		if p.HasConstraint && !constraints.Contains(p.Constraint, c.phraseID) {
			continue
		}
		if _, already := emitted[c.phraseID]; already {
			continue
		}

		phrase, ok := store.Get(c.phraseID)
		if !ok || int(c.tokenIndex) >= len(phrase.Tokens) {
			continue
		}
		token := phrase.Tokens[c.tokenIndex]

		if p.HasMaxDist {
			// Levenshtein distance is bounded below by the difference in
			// rune length; skip the expensive computation when that bound
			// alone already exceeds max_distance.
			lenDiff := mustLen - c.tokenLen
			if lenDiff < 0 {
				lenDiff = -lenDiff
			}
			if int(lenDiff) > p.MaxDistance {
				continue
			}
		}

		distance := edlib.LevenshteinDistance(must, token)
		if p.HasMaxDist && distance > p.MaxDistance {
			continue
		}

		emitted[c.phraseID] = struct{}{}
		hits = append(hits, Hit{
			Original:    phrase.Original,
			Index:       phrase.Index,
			Token:       token,
			Distance:    distance,
			Score:       c.baseScore,
			ShouldScore: c.shouldScore,
		})
	}

	return hits
}
