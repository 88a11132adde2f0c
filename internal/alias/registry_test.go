package alias_test

import (
	"os"
	"path/filepath"
	"testing"

	"rosterid/internal/alias"
)

func TestLookupKnownNicknames(t *testing.T) {
	registry := alias.NewRegistry(alias.Builtin()...)

	cases := []struct {
		input    string
		expected string
	}{
		{"Hollywood Brown", "marquise brown"},
		{"Gabe Davis", "gabriel davis"},
		{"Mitch Trubisky", "mitchell trubisky"},
		{"HOLLYWOOD BROWN", "marquise brown"},
	}
	for _, tc := range cases {
		if got := registry.Lookup(tc.input, alias.Metadata{}); got != tc.expected {
			t.Fatalf("Lookup(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestLookupFallsThroughToNormalizedInput(t *testing.T) {
	registry := alias.NewRegistry(alias.Builtin()...)
	if got := registry.Lookup("Justin Jefferson", alias.Metadata{}); got != "justin jefferson" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestLookupEmptyInputStaysEmpty(t *testing.T) {
	registry := alias.NewRegistry(alias.Builtin()...)
	if got := registry.Lookup("   ", alias.Metadata{}); got != "" {
		t.Fatalf("expected empty sentinel, got %q", got)
	}
}

func TestConstraintRequiresMetadata(t *testing.T) {
	registry := alias.NewRegistry(
		alias.Entry{Alias: "MT", Canonical: "Michael Thomas", Team: "NO", Pos: "WR"},
	)

	// Entry has constraints; a query without metadata must not match.
	if got := registry.Lookup("MT", alias.Metadata{}); got != "mt" {
		t.Fatalf("expected constrained entry to be skipped, got %q", got)
	}

	// Partial metadata still fails the missing constraint.
	if got := registry.Lookup("MT", alias.Metadata{Team: "NO"}); got != "mt" {
		t.Fatalf("expected constrained entry to be skipped without pos, got %q", got)
	}

	// Full matching metadata applies the entry; comparison is case-insensitive.
	if got := registry.Lookup("MT", alias.Metadata{Team: "no", Pos: "wr"}); got != "michael thomas" {
		t.Fatalf("expected constrained entry to apply, got %q", got)
	}

	// Conflicting metadata fails.
	if got := registry.Lookup("MT", alias.Metadata{Team: "ATL", Pos: "WR"}); got != "mt" {
		t.Fatalf("expected mismatched team to be skipped, got %q", got)
	}
}

func TestAddIgnoresBlankEntries(t *testing.T) {
	registry := alias.NewRegistry()
	registry.Add(alias.Entry{Alias: " ", Canonical: "Somebody"})
	registry.Add(alias.Entry{Alias: "Somebody", Canonical: ""})
	if registry.Len() != 0 {
		t.Fatalf("expected blank entries ignored, have %d", registry.Len())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.toml")
	content := `
[[aliases]]
alias = "Smoke Brown"
canonical = "John Brown"

[[aliases]]
alias = "Juice Landry"
canonical = "Jarvis Landry"
team = "CLE"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	registry, err := alias.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if got := registry.Lookup("Smoke Brown", alias.Metadata{}); got != "john brown" {
		t.Fatalf("expected file entry to resolve, got %q", got)
	}
	// Builtin table is still present underneath the file entries.
	if got := registry.Lookup("Gabe Davis", alias.Metadata{}); got != "gabriel davis" {
		t.Fatalf("expected builtin entry to resolve, got %q", got)
	}
	if got := registry.Lookup("Juice Landry", alias.Metadata{Team: "CLE"}); got != "jarvis landry" {
		t.Fatalf("expected constrained file entry to resolve, got %q", got)
	}
}

func TestLoadFileMissingPathUsesBuiltin(t *testing.T) {
	registry, err := alias.LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if registry.Len() == 0 {
		t.Fatal("expected builtin entries")
	}
}
