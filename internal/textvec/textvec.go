// Package textvec converts raw ticket text into fixed-dimension TF-IDF
// feature vectors over a vocabulary fitted at training time.
package textvec

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxFeatures caps the fitted vocabulary size. Matches the trainer's
// default and bounds the classifier's feature dimension.
const DefaultMaxFeatures = 1000

// Vocabulary holds the terms and IDF weights fitted over a corpus.
// Immutable after Fit; Transform is safe for concurrent callers.
type Vocabulary struct {
	Terms []string  `cbor:"terms"`
	IDF   []float64 `cbor:"idf"`

	index map[string]int
}

// Fit builds a vocabulary from the corpus, keeping the maxFeatures most
// frequent terms by document frequency (ties broken lexicographically so a
// fixed corpus always yields the same vocabulary). Stop words are dropped.
// maxFeatures <= 0 falls back to DefaultMaxFeatures.
func Fit(corpus []string, maxFeatures int) *Vocabulary {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	// document frequency per term
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			if _, ok := stopWords[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			df[tok]++
		}
	}

	type termDF struct {
		term string
		df   int
	}
	ranked := make([]termDF, 0, len(df))
	for term, n := range df {
		ranked = append(ranked, termDF{term, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].df != ranked[j].df {
			return ranked[i].df > ranked[j].df
		}
		return ranked[i].term < ranked[j].term
	})
	if len(ranked) > maxFeatures {
		ranked = ranked[:maxFeatures]
	}

	// fix term order alphabetically for a stable column layout
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].term < ranked[j].term })

	n := len(corpus)
	v := &Vocabulary{
		Terms: make([]string, len(ranked)),
		IDF:   make([]float64, len(ranked)),
		index: make(map[string]int, len(ranked)),
	}
	for i, td := range ranked {
		v.Terms[i] = td.term
		// smoothed IDF: ln((1+n)/(1+df)) + 1, never zero for fitted terms
		v.IDF[i] = math.Log(float64(1+n)/float64(1+td.df)) + 1
		v.index[td.term] = i
	}
	return v
}

// Dim returns the feature dimension produced by Transform.
func (v *Vocabulary) Dim() int { return len(v.Terms) }

// Transform maps text to a TF-IDF vector of length Dim, L2-normalized.
// Out-of-vocabulary terms are silently dropped. Pure function: identical
// input always yields an identical vector.
func (v *Vocabulary) Transform(text string) []float64 {
	vec := make([]float64, len(v.Terms))
	for _, tok := range Tokenize(text) {
		if i, ok := v.index[tok]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i := range vec {
		if vec[i] > 0 {
			vec[i] *= v.IDF[i]
			norm += vec[i] * vec[i]
		}
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Reindex rebuilds the internal term lookup. Must be called after decoding a
// Vocabulary from a serialized artifact, where only Terms and IDF survive.
func (v *Vocabulary) Reindex() {
	v.index = make(map[string]int, len(v.Terms))
	for i, term := range v.Terms {
		v.index[term] = i
	}
}

// Tokenize lowercases the text, strips punctuation, and splits on
// whitespace. Tokens shorter than two runes are dropped.
func Tokenize(text string) []string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, text)

	fields := strings.Fields(mapped)
	toks := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			toks = append(toks, f)
		}
	}
	return toks
}
