package namenorm_test

import (
	"testing"

	"rosterid/internal/namenorm"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Patrick Mahomes", "patrick mahomes"},
		{"diacritics", "José Ramírez", "jose ramirez"},
		{"uppercase diacritics", "JOSÉ RAMÍREZ", "jose ramirez"},
		{"initials with periods", "D.J. Moore", "dj moore"},
		{"initials spaced", "D J Moore", "dj moore"},
		{"suffix jr", "Odell Beckham Jr.", "odell beckham"},
		{"suffix roman", "Will Fuller V", "will fuller"},
		{"stacked suffixes", "John Smith II Jr", "john smith"},
		{"leading initials spelling a suffix", "S. R. Jones", "sr jones"},
		{"leading initials spelling roman suffix", "I. I. Abanikanda", "ii abanikanda"},
		{"hyphen and abbreviation", "Amon-Ra St. Brown", "amon ra st brown"},
		{"apostrophe", "De'Von Achane", "de von achane"},
		{"curly apostrophe", "De’Von Achane", "de von achane"},
		{"slash", "Taysom Hill/TE", "taysom hill te"},
		{"extra whitespace", "  Justin   Jefferson  ", "justin jefferson"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"punctuation only", "...", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := namenorm.Normalize(tc.input)
			if got != tc.expected {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Patrick Mahomes",
		"José Ramírez",
		"D.J. Moore",
		"Odell Beckham Jr.",
		"Amon-Ra St. Brown",
		"Ja'Marr Chase",
		"S. R. Jones",
		"I. I. Abanikanda",
		"Jones S. R.",
		"Will Fuller V",
		"",
	}
	for _, input := range inputs {
		once := namenorm.Normalize(input)
		twice := namenorm.Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	if namenorm.Normalize("José") != namenorm.Normalize("JOSE") {
		t.Fatal("expected case and diacritic insensitive keys to match")
	}
}

func TestNormalizeInitialsRunFlush(t *testing.T) {
	// A multi-character token between initials must flush the accumulator.
	got := namenorm.Normalize("C J Gardner Johnson")
	if got != "cj gardner johnson" {
		t.Fatalf("got %q", got)
	}
	got = namenorm.Normalize("A Big B C Name")
	if got != "a big bc name" {
		t.Fatalf("got %q", got)
	}
}
