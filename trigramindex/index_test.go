package trigramindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaa/fuzzdex/trigramindex"
)

func TestSealComputesDocumentFrequencyScore(t *testing.T) {
	idx := trigramindex.New()

	// "abc" appears in phrases 1 and 2 -> df=2 -> score 0.5
	idx.Add("abc", trigramindex.Posting{PhraseID: 1, TokenIndex: 0, TokenLen: 3})
	idx.Add("abc", trigramindex.Posting{PhraseID: 2, TokenIndex: 0, TokenLen: 3})
	// "xyz" appears only in phrase 1 -> df=1 -> score 1.0
	idx.Add("xyz", trigramindex.Posting{PhraseID: 1, TokenIndex: 1, TokenLen: 3})

	idx.Seal()

	_, abcScore, ok := idx.Lookup("abc")
	require.True(t, ok)
	assert.InDelta(t, 0.5, abcScore, 1e-9)

	_, xyzScore, ok := idx.Lookup("xyz")
	require.True(t, ok)
	assert.InDelta(t, 1.0, xyzScore, 1e-9)

	_, _, ok = idx.Lookup("nope")
	assert.False(t, ok)
}

func TestAddCoalescesDuplicatePostings(t *testing.T) {
	idx := trigramindex.New()

	// Same (phraseID, tokenIndex) pair added twice for the same trigram
	// must yield a single posting (spec §4.2).
	idx.Add("aaa", trigramindex.Posting{PhraseID: 1, TokenIndex: 0, TokenLen: 4})
	idx.Add("aaa", trigramindex.Posting{PhraseID: 1, TokenIndex: 0, TokenLen: 4})
	idx.Add("aaa", trigramindex.Posting{PhraseID: 2, TokenIndex: 0, TokenLen: 4})

	idx.Seal()

	postings, _, ok := idx.Lookup("aaa")
	require.True(t, ok)
	assert.Len(t, postings, 2)
}

func TestTrigramCount(t *testing.T) {
	idx := trigramindex.New()
	idx.Add("abc", trigramindex.Posting{PhraseID: 1, TokenIndex: 0})
	idx.Add("def", trigramindex.Posting{PhraseID: 1, TokenIndex: 0})
	idx.Seal()

	assert.Equal(t, 2, idx.TrigramCount())
}
