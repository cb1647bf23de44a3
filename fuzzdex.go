// Package fuzzdex is an in-memory fuzzy dictionary that maps short
// human-language phrases (street names, city names) to caller-supplied
// integer identifiers, and answers approximate-match queries against a
// possibly-misspelled token. See SPEC_FULL.md for the full design.
//
// Lifecycle: an instance is constructed via New, accepts AddPhrase calls,
// transitions to sealed exactly once via Finish, and serves Search calls
// from then on. Mutation after Finish fails; Search before Finish fails.
package fuzzdex

import (
	"sync"
	"sync/atomic"

	"github.com/blaa/fuzzdex/constraintindex"
	"github.com/blaa/fuzzdex/dexerrors"
	"github.com/blaa/fuzzdex/lrucache"
	"github.com/blaa/fuzzdex/normalize"
	"github.com/blaa/fuzzdex/phrasestore"
	"github.com/blaa/fuzzdex/queryengine"
	"github.com/blaa/fuzzdex/trigramindex"
)

// DefaultCacheSize bounds the LRU must-cache when New is called without an
// explicit size via NewWithCacheSize.
const DefaultCacheSize = 1000

// Sentinel errors re-exported from dexerrors for callers that only need
// errors.Is, without importing the dexerrors package directly.
var (
	ErrAlreadySealed   = dexerrors.ErrAlreadySealed
	ErrNotSealed       = dexerrors.ErrNotSealed
	ErrDuplicateIndex  = dexerrors.ErrDuplicateIndex
	ErrInvalidArgument = dexerrors.ErrInvalidArgument
)

// Hit is one ranked search result: the matched phrase's original text, its
// caller-supplied index, the matched token, its edit distance from the
// must-token, and the must/should score components (spec §6).
type Hit = queryengine.Hit

// FuzzDex is a single fuzzy-dictionary instance. The zero value is not
// usable; construct with New or NewWithCacheSize.
type FuzzDex struct {
	mu          sync.Mutex // guards insertion-time structures; not held during Search
	store       *phrasestore.Store
	trigrams    *trigramindex.Index
	constraints *constraintindex.Index
	cache       *lrucache.Cache

	sealed int32 // atomic bool
}

// New creates an empty, open (unsealed) FuzzDex instance with the default
// must-cache size.
func New() *FuzzDex {
	return NewWithCacheSize(DefaultCacheSize)
}

// NewWithCacheSize creates an empty instance whose LRU must-cache holds at
// most cacheSize entries.
func NewWithCacheSize(cacheSize int) *FuzzDex {
	return &FuzzDex{
		store:       phrasestore.New(),
		trigrams:    trigramindex.New(),
		constraints: constraintindex.New(),
		cache:       lrucache.New(cacheSize),
	}
}

func (f *FuzzDex) isSealed() bool {
	return atomic.LoadInt32(&f.sealed) != 0
}

// AddPhrase inserts a phrase with its caller-supplied index and constraint
// tags. Fails with dexerrors.ErrAlreadySealed if the instance is sealed, or
// dexerrors.ErrDuplicateIndex if index is already in use. A rejected insert
// leaves the instance unchanged.
func (f *FuzzDex) AddPhrase(original string, index int32, constraints []int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.isSealed() {
		return dexerrors.AlreadySealed("add_phrase")
	}
	if f.store.Has(index) {
		return dexerrors.DuplicateIndex("add_phrase", index)
	}

	phrase := f.store.Add(original, index, constraints)

	for tokenIdx, token := range phrase.Tokens {
		if len(token) == 0 {
			continue
		}
		tokenLen := int32(len([]rune(token)))
		for _, tg := range normalize.Trigrams(token) {
			f.trigrams.Add(tg, trigramindex.Posting{
				PhraseID:   index,
				TokenIndex: int32(tokenIdx),
				TokenLen:   tokenLen,
			})
		}
	}

	for _, tag := range phrase.Constraints {
		f.constraints.Add(tag, index)
	}

	return nil
}

// Finish seals the instance: trigram scores are computed exactly once and
// no further mutation is accepted. Fails with dexerrors.ErrAlreadySealed if
// called twice.
func (f *FuzzDex) Finish() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.isSealed() {
		return dexerrors.AlreadySealed("finish")
	}

	f.trigrams.Seal()
	atomic.StoreInt32(&f.sealed, 1)
	return nil
}

// SearchOptions bundles the optional arguments to Search beyond the
// must-token and limit.
type SearchOptions struct {
	Should      []string // should-tokens; zero or more
	MaxDistance *int     // nil means effectively unbounded
	Constraint  *int32   // nil means no constraint restriction
}

// Search answers a fuzzy query: given must (a possibly-misspelled token),
// returns up to limit ranked Hits, optionally reweighted by should-tokens
// and restricted to a single constraint tag. Fails with
// dexerrors.ErrNotSealed if called before Finish, or
// dexerrors.ErrInvalidArgument if limit <= 0 or MaxDistance is negative.
func (f *FuzzDex) Search(must string, limit int, opts SearchOptions) ([]Hit, error) {
	if !f.isSealed() {
		return nil, dexerrors.NotSealed("search")
	}
	if limit <= 0 {
		return nil, dexerrors.InvalidArgument("search", "limit must be positive")
	}
	if opts.MaxDistance != nil && *opts.MaxDistance < 0 {
		return nil, dexerrors.InvalidArgument("search", "max_distance must be non-negative")
	}

	params := queryengine.Params{
		MustToken:    must,
		ShouldTokens: opts.Should,
		Limit:        limit,
	}
	if opts.MaxDistance != nil {
		params.HasMaxDist = true
		params.MaxDistance = *opts.MaxDistance
	}
	if opts.Constraint != nil {
		params.HasConstraint = true
		params.Constraint = *opts.Constraint
	}

	hits := queryengine.Search(f.store, f.trigrams, f.constraints, f.cache, params)
	return hits, nil
}

// Stats reports instance-level counters (spec §6).
type Stats struct {
	PhraseCount  int
	TrigramCount int
	CacheHits    uint64
	CacheMisses  uint64
}

// Stats returns a snapshot of phrase/trigram counts and cumulative cache
// hit/miss counts. Valid at any point in the lifecycle.
func (f *FuzzDex) Stats() Stats {
	hits, misses := f.cache.Stats()
	return Stats{
		PhraseCount:  f.store.Len(),
		TrigramCount: f.trigrams.TrigramCount(),
		CacheHits:    hits,
		CacheMisses:  misses,
	}
}
