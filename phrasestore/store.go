// Package phrasestore holds every phrase inserted into a FuzzDex instance:
// its original text, caller-supplied index, constraint tags, and derived
// canonical tokens. Storage is append-only until sealed.
package phrasestore

import "github.com/blaa/fuzzdex/normalize"

// Phrase is one inserted entry. Immutable after insertion; Store never
// destroys a Phrase for the lifetime of the instance.
type Phrase struct {
	Original    string
	Index       int32
	Tokens      []string
	Constraints []int32
}

// Store is the phrase table, keyed by the caller-supplied index.
type Store struct {
	phrases []Phrase
	byIndex map[int32]int // caller index -> slot in phrases
}

// New creates an empty phrase store.
func New() *Store {
	return &Store{
		byIndex: make(map[int32]int),
	}
}

// Has reports whether index is already in use.
func (s *Store) Has(index int32) bool {
	_, ok := s.byIndex[index]
	return ok
}

// Add normalizes original and appends a new Phrase. Callers must have
// already verified the index is unused (via Has) — Add itself does not
// fail, to keep the seal/duplicate-index policy entirely in the caller
// (fuzzdex.FuzzDex), which also owns the trigram/constraint indices that
// must stay consistent with the store.
func (s *Store) Add(original string, index int32, constraints []int32) *Phrase {
	tokens := normalize.Normalize(original)

	constraintsCopy := make([]int32, len(constraints))
	copy(constraintsCopy, constraints)

	p := Phrase{
		Original:    original,
		Index:       index,
		Tokens:      tokens,
		Constraints: constraintsCopy,
	}

	s.phrases = append(s.phrases, p)
	s.byIndex[index] = len(s.phrases) - 1
	return &s.phrases[len(s.phrases)-1]
}

// Get returns the phrase with the given caller index.
func (s *Store) Get(index int32) (*Phrase, bool) {
	slot, ok := s.byIndex[index]
	if !ok {
		return nil, false
	}
	return &s.phrases[slot], true
}

// Len returns the number of stored phrases.
func (s *Store) Len() int {
	return len(s.phrases)
}
