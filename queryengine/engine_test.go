package queryengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaa/fuzzdex/constraintindex"
	"github.com/blaa/fuzzdex/lrucache"
	"github.com/blaa/fuzzdex/normalize"
	"github.com/blaa/fuzzdex/phrasestore"
	"github.com/blaa/fuzzdex/queryengine"
	"github.com/blaa/fuzzdex/trigramindex"
)

// harness builds the four structures Search needs from a plain list of
// (text, index, constraints) phrases, mirroring what fuzzdex.AddPhrase does
// internally, so the query engine can be tested without the root package.
func harness(t *testing.T, phrases []struct {
	text        string
	index       int32
	constraints []int32
}) (*phrasestore.Store, *trigramindex.Index, *constraintindex.Index, *lrucache.Cache) {
	t.Helper()

	store := phrasestore.New()
	trigrams := trigramindex.New()
	constraints := constraintindex.New()
	cache := lrucache.New(100)

	for _, p := range phrases {
		phrase := store.Add(p.text, p.index, p.constraints)
		for tokenIdx, token := range phrase.Tokens {
			tokenLen := int32(len([]rune(token)))
			for _, tg := range normalize.Trigrams(token) {
				trigrams.Add(tg, trigramindex.Posting{PhraseID: p.index, TokenIndex: int32(tokenIdx), TokenLen: tokenLen})
			}
		}
		for _, tag := range phrase.Constraints {
			constraints.Add(tag, p.index)
		}
	}
	trigrams.Seal()

	return store, trigrams, constraints, cache
}

func TestEmptyMustTokenAfterNormalization(t *testing.T) {
	store, trigrams, constraints, cache := harness(t, nil)

	hits := queryengine.Search(store, trigrams, constraints, cache, queryengine.Params{
		MustToken: "   ",
		Limit:     10,
	})
	assert.Empty(t, hits)
}

func TestNoMatchingTrigramReturnsEmpty(t *testing.T) {
	store, trigrams, constraints, cache := harness(t, []struct {
		text        string
		index       int32
		constraints []int32
	}{{text: "Warsaw", index: 1}})

	hits := queryengine.Search(store, trigrams, constraints, cache, queryengine.Params{
		MustToken: "zzzzzz",
		Limit:     10,
	})
	assert.Empty(t, hits)
}

func TestShouldTokenNeverIntroducesNewCandidates(t *testing.T) {
	store, trigrams, constraints, cache := harness(t, []struct {
		text        string
		index       int32
		constraints []int32
	}{
		{text: "Warsaw", index: 1},
		{text: "Gdansk", index: 2},
	})

	// "gdansk" as a should-token must not pull phrase 2 in when the must
	// token only matches phrase 1.
	hits := queryengine.Search(store, trigrams, constraints, cache, queryengine.Params{
		MustToken:    "warsaw",
		ShouldTokens: []string{"gdansk"},
		Limit:        10,
	})

	require.Len(t, hits, 1)
	assert.EqualValues(t, 1, hits[0].Index)
}

func TestMaxDistanceZeroRequiresExactMatch(t *testing.T) {
	store, trigrams, constraints, cache := harness(t, []struct {
		text        string
		index       int32
		constraints []int32
	}{{text: "Warsaw", index: 1}})

	md := 0
	hits := queryengine.Search(store, trigrams, constraints, cache, queryengine.Params{
		MustToken:   "warszawa",
		HasMaxDist:  true,
		MaxDistance: md,
		Limit:       10,
	})
	assert.Empty(t, hits)

	hits = queryengine.Search(store, trigrams, constraints, cache, queryengine.Params{
		MustToken:   "warsaw",
		HasMaxDist:  true,
		MaxDistance: md,
		Limit:       10,
	})
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Distance)
}
