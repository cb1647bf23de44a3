// Package normalize implements FuzzDex's text-normalization pipeline: it
// turns raw phrases and query tokens into a canonical, comparable sequence
// of tokens, and turns tokens into trigrams. It is a pure function library
// with no state, grounded on the diacritic-folding transform chain used by
// the go-autocomplete-trie example (transform.Chain(norm.NFD,
// runes.Remove(runes.In(unicode.Mn)), norm.NFC)).
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sentinel is the boundary character padded onto tokens before trigram
// extraction. It can never occur inside a normalized token (normalized
// tokens only contain letters and digits), so it is safe as a delimiter.
const Sentinel = ' '

// diacriticFixup covers characters whose canonical (NFD) decomposition does
// not separate the diacritic mark, so the generic Mn-stripping pass below
// never touches them. Polish ł/Ł and a handful of similarly "stroke"
// letters fall in this category.
var diacriticFixup = map[rune]rune{
	'ł': 'l', 'Ł': 'L',
	'đ': 'd', 'Đ': 'D',
	'ø': 'o', 'Ø': 'O',
	'ß': 's',
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var caseFolder = cases.Fold()

// Normalize converts raw text into its canonical token sequence: diacritic
// folding, full Unicode case folding, then word-boundary segmentation that
// discards punctuation/separator/symbol-only runs. The result is
// deterministic for a given input.
func Normalize(text string) []string {
	folded := foldDiacritics(text)
	lowered := caseFolder.String(folded)
	return segmentWords(lowered)
}

// foldDiacritics applies the explicit fixup table first (for marks whose
// canonical decomposition doesn't separate), then strips any remaining
// combining marks via NFD/remove-Mn/NFC.
func foldDiacritics(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if replacement, ok := diacriticFixup[r]; ok {
			b.WriteRune(replacement)
			continue
		}
		b.WriteRune(r)
	}

	out, _, err := transform.String(stripMarks, b.String())
	if err != nil {
		// stripMarks never returns a fatal error for well-formed UTF-8
		// input; fall back to the pre-transform text rather than lose data.
		return b.String()
	}
	return out
}

// segmentWords splits already-folded, already-lowercased text into maximal
// runs of letters and digits, in source order. Anything else (punctuation,
// separators, symbols, whitespace) is a boundary and is discarded, never
// emitted as its own token.
func segmentWords(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// Trigrams pads a normalized token with one Sentinel on each side and
// returns every length-3 window over Unicode scalar values, in order. A
// token of length >= 1 always yields at least one trigram.
func Trigrams(token string) []string {
	if token == "" {
		return nil
	}

	runes := make([]rune, 0, len(token)+2)
	runes = append(runes, Sentinel)
	runes = append(runes, []rune(token)...)
	runes = append(runes, Sentinel)

	if len(runes) < 3 {
		return nil
	}

	trigrams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		trigrams = append(trigrams, string(runes[i:i+3]))
	}
	return trigrams
}
