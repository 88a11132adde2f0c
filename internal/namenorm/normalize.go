package namenorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// suffixTokens are generational name suffixes dropped during normalization.
// They are dropped only from the end of a name, where generational suffixes
// occur; an identical token earlier in the name (including one produced by
// merging initials, as in "S. R. Jones") is a name part and stays. Dropping
// them at all is a deliberate, lossy policy: two distinct people who differ
// only by suffix collapse to the same key and must be separated by DOB or
// manual review downstream.
var suffixTokens = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

// diacriticStripper decomposes to NFD, removes combining marks, and recomposes.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// separatorReplacer maps name punctuation that joins name parts to spaces so
// "Amon-Ra" and "D'Andre" tokenize the same as their spaced spellings.
var separatorReplacer = strings.NewReplacer(
	"'", " ",
	"’", " ",
	"`", " ",
	"-", " ",
	"–", " ",
	"/", " ",
)

// Normalize converts a raw display name into its canonical matching key.
//
// The pipeline: strip diacritics, lowercase, break punctuation into spaces,
// drop anything that is not alphanumeric or a space, collapse whitespace,
// merge runs of single-character tokens into one "initials" token
// ("d j moore" -> "dj moore"), and drop trailing suffix tokens. Merging
// before suffix-dropping keeps Normalize idempotent when merged initials
// spell a suffix ("s r jones" -> "sr jones" on every pass).
func Normalize(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	stripped, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		// Transform failures leave the input usable as-is; continue with
		// the original bytes rather than refusing to produce a key.
		stripped = name
	}

	lowered := strings.ToLower(stripped)
	separated := separatorReplacer.Replace(lowered)

	var b strings.Builder
	b.Grow(len(separated))
	for _, r := range separated {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	tokens := mergeInitials(strings.Fields(b.String()))
	for len(tokens) > 0 {
		if _, drop := suffixTokens[tokens[len(tokens)-1]]; !drop {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, " ")
}

// mergeInitials joins runs of consecutive single-character tokens into one
// token, flushing the run whenever a multi-character token appears.
func mergeInitials(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			out = append(out, run.String())
			run.Reset()
		}
	}
	for _, tok := range tokens {
		if len(tok) == 1 {
			run.WriteString(tok)
			continue
		}
		flush()
		out = append(out, tok)
	}
	flush()
	return out
}
