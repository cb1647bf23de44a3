// Package trigramindex is the inverted trigram index described in
// spec §4.3: trigram -> postings, with per-trigram scores derived from
// document frequency and finalized exactly once, at seal.
//
// Trigram keys are hashed with xxhash rather than kept as Go strings,
// generalizing the teacher's ASCII bit-shift hash (core.extractSimpleTrigrams
// in standardbeagle-lci) to full Unicode trigrams: a 3-rune window doesn't
// fit in a uint32 the way 3 ASCII bytes do, but it still hashes cleanly to a
// uint64 map key, avoiding the string-allocation overhead a map[string]...
// index would carry on every lookup.
package trigramindex

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Posting records one occurrence of a trigram inside a phrase's token list:
// which phrase, which token position within that phrase, and that token's
// rune length (used by the query engine to skip impossible edit-distance
// candidates before running Levenshtein).
type Posting struct {
	PhraseID   int32
	TokenIndex int32
	TokenLen   int32
}

type entry struct {
	postings []Posting
	seen     map[int64]struct{} // (phraseID<<32 | tokenIndex) seen during insertion, for dedup
	score    float64
}

// Index is the inverted trigram -> postings map. Every method takes the
// index's mutex, so concurrent Add calls are safe, and reads after Seal are
// serialized by the same lock.
type Index struct {
	mu      sync.Mutex
	entries map[uint64]*entry
	sealed  bool
}

// New creates an empty, open trigram index.
func New() *Index {
	return &Index{entries: make(map[uint64]*entry)}
}

func hashTrigram(trigram string) uint64 {
	return xxhash.Sum64String(trigram)
}

// Add appends a posting for trigram, coalescing duplicate postings for the
// same (phraseID, tokenIndex) pair within the same trigram (per spec §4.2:
// "a given token position appears at most once per trigram list, even if
// the same trigram repeats within the token").
func (idx *Index) Add(trigram string, p Posting) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := hashTrigram(trigram)
	e, ok := idx.entries[key]
	if !ok {
		e = &entry{seen: make(map[int64]struct{})}
		idx.entries[key] = e
	}

	dedupKey := int64(p.PhraseID)<<32 | int64(p.TokenIndex)
	if _, dup := e.seen[dedupKey]; dup {
		return
	}
	e.seen[dedupKey] = struct{}{}
	e.postings = append(e.postings, p)
}

// Seal computes each trigram's document-frequency score (1/df, where df is
// the number of distinct phrase-ids referencing the trigram) and sets the
// index's sealed flag. Add does not check that flag: rejecting insertion
// after seal, and a second Seal call, is done by the owning FuzzDex
// instance's own sealed flag, not here.
func (idx *Index) Seal() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, e := range idx.entries {
		distinct := make(map[int32]struct{}, len(e.postings))
		for _, p := range e.postings {
			distinct[p.PhraseID] = struct{}{}
		}
		df := len(distinct)
		if df == 0 {
			df = 1
		}
		e.score = 1.0 / float64(df)
		e.seen = nil // no longer needed after seal
	}
	idx.sealed = true
}

// Lookup returns the postings and score for trigram. The returned slice
// must not be mutated by the caller.
func (idx *Index) Lookup(trigram string) ([]Posting, float64, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.entries[hashTrigram(trigram)]
	if !ok {
		return nil, 0, false
	}
	return e.postings, e.score, true
}

// TrigramCount returns the number of distinct trigrams in the index.
func (idx *Index) TrigramCount() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.entries)
}
