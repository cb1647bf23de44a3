package phrasestore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaa/fuzzdex/phrasestore"
)

func TestAddNormalizesIntoTokens(t *testing.T) {
	s := phrasestore.New()
	p := s.Add("Nowy Świat", 1, []int32{7})

	assert.Equal(t, "Nowy Świat", p.Original)
	assert.EqualValues(t, 1, p.Index)
	assert.Equal(t, []string{"nowy", "swiat"}, p.Tokens)
	assert.Equal(t, []int32{7}, p.Constraints)
}

func TestHasAndGet(t *testing.T) {
	s := phrasestore.New()
	assert.False(t, s.Has(1))

	s.Add("Warsaw", 1, nil)
	assert.True(t, s.Has(1))

	p, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Warsaw", p.Original)

	_, ok = s.Get(2)
	assert.False(t, ok)
}

func TestConstraintsAreCopiedNotAliased(t *testing.T) {
	s := phrasestore.New()
	tags := []int32{1, 2}
	p := s.Add("Warsaw", 1, tags)

	tags[0] = 99
	assert.Equal(t, []int32{1, 2}, p.Constraints, "Store.Add must copy the constraints slice")
}

func TestLenCountsStoredPhrases(t *testing.T) {
	s := phrasestore.New()
	assert.Equal(t, 0, s.Len())

	s.Add("Warsaw", 1, nil)
	s.Add("Gdansk", 2, nil)
	assert.Equal(t, 2, s.Len())
}
