package textutil

import (
	"math"
	"strings"
)

// Fingerprint represents a character-bigram frequency vector for a name.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint creates a fingerprint from the provided name. The input is
// expected to already be normalized (lowercase tokens separated by single
// spaces). Returns nil if the name produces no bigrams.
func NewFingerprint(name string) *Fingerprint {
	grams := Bigrams(name)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, gram := range grams {
		counts[gram]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		grams: counts,
		norm:  math.Sqrt(norm),
	}
}

// Bigrams returns the character bigrams of each whitespace-separated token,
// with boundary markers so first and last characters carry weight. A
// single-character token yields one boundary-padded bigram pair.
func Bigrams(name string) []string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return nil
	}
	var grams []string
	for _, token := range fields {
		padded := "^" + token + "$"
		runes := []rune(padded)
		for i := 0; i+1 < len(runes); i++ {
			grams = append(grams, string(runes[i:i+2]))
		}
	}
	return grams
}

// GramCount returns the number of distinct bigrams in the fingerprint.
func (f *Fingerprint) GramCount() int {
	if f == nil {
		return 0
	}
	return len(f.grams)
}
