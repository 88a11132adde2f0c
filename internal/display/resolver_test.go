package display_test

import (
	"testing"

	"rosterid/internal/display"
)

func TestClassifyIDShape(t *testing.T) {
	tests := []struct {
		value string
		want  display.IDShape
	}{
		{"Justin Jefferson", display.ShapeFreeText},
		{"", display.ShapeFreeText},
		{"6794", display.ShapeNumeric},
		{"00-0036322", display.ShapeGsisPattern},
		{"12-3456789", display.ShapeGsisPattern},
		{"00-123456", display.ShapeGsisPattern},
		{"00-12345", display.ShapeFreeText},
		{"550e8400-e29b-41d4-a716-446655440000", display.ShapeUuidPattern},
		{"Sleeper Player 12345", display.ShapePlaceholderName},
		{"ESPN player 99", display.ShapePlaceholderName},
		{"T.J. Hockenson", display.ShapeFreeText},
	}
	for _, tt := range tests {
		if got := display.ClassifyIDShape(tt.value); got != tt.want {
			t.Errorf("ClassifyIDShape(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestDisplayNamePrefersUsableRowName(t *testing.T) {
	resolver := &display.Resolver{}
	row := display.Row{Name: "CeeDee Lamb", SleeperID: "6786"}
	if got := resolver.DisplayName(row); got != "CeeDee Lamb" {
		t.Fatalf("DisplayName = %q, want row name", got)
	}
}

func TestDisplayNameRejectsIDShapedNames(t *testing.T) {
	idx := display.NewIndex()
	idx.Add(display.KindSleeper, "6786", display.Entry{Name: "CeeDee Lamb"})
	resolver := &display.Resolver{Index: idx}

	for _, name := range []string{"6786", "00-0036322", "Sleeper Player 6786"} {
		row := display.Row{Name: name, SleeperID: "6786"}
		if got := resolver.DisplayName(row); got != "CeeDee Lamb" {
			t.Errorf("DisplayName with name %q = %q, want index fallback", name, got)
		}
	}
}

func TestDisplayNamePriorityOrder(t *testing.T) {
	idx := display.NewIndex()
	idx.Add(display.KindSleeper, "100", display.Entry{Name: "From Sleeper"})
	idx.Add(display.KindGsis, "00-0000100", display.Entry{Name: "From Gsis"})
	resolver := &display.Resolver{Index: idx}

	row := display.Row{SleeperID: "100", GsisID: "00-0000100"}
	if got := resolver.DisplayName(row); got != "From Sleeper" {
		t.Fatalf("DisplayName = %q, want sleeper entry to win", got)
	}

	// An unusable high-priority entry falls through to the next kind.
	idx.Add(display.KindSleeper, "100", display.Entry{Name: "Sleeper Player 100"})
	if got := resolver.DisplayName(row); got != "From Gsis" {
		t.Fatalf("DisplayName = %q, want gsis after unusable sleeper entry", got)
	}
}

func TestDisplayNameSecondaryAndDirectoryFallbacks(t *testing.T) {
	resolver := &display.Resolver{
		SecondaryNames: map[display.Kind]map[string]string{
			display.KindEspn: {"3139477": "Patrick Mahomes"},
		},
		Directory: map[string]string{"999": "Directory Person"},
	}

	if got := resolver.DisplayName(display.Row{EspnID: "3139477"}); got != "Patrick Mahomes" {
		t.Fatalf("secondary lookup = %q", got)
	}
	if got := resolver.DisplayName(display.Row{PlayerID: "999"}); got != "Directory Person" {
		t.Fatalf("directory lookup = %q", got)
	}
	if got := resolver.DisplayName(display.Row{PlayerID: "1000"}); got != display.UnknownPlayer {
		t.Fatalf("terminal fallback = %q, want %q", got, display.UnknownPlayer)
	}
}

func TestIndexNameDistinguishesAbsentFromUnusable(t *testing.T) {
	idx := display.NewIndex()
	idx.Add(display.KindSleeper, "1", display.Entry{Name: "12345"})

	if result := idx.Name(display.KindSleeper, "1"); result.State != display.LookupUnusable {
		t.Fatalf("state = %v, want unusable", result.State)
	}
	if result := idx.Name(display.KindSleeper, "2"); result.State != display.LookupAbsent {
		t.Fatalf("state = %v, want absent", result.State)
	}
	idx.Add(display.KindSleeper, "3", display.Entry{Name: "Nico Collins"})
	result := idx.Name(display.KindSleeper, "3")
	if result.State != display.LookupFound || result.Value != "Nico Collins" {
		t.Fatalf("result = %+v, want found Nico Collins", result)
	}
}

func TestHeadshotFallbacks(t *testing.T) {
	idx := display.NewIndex()
	idx.Add(display.KindGsis, "00-0036322", display.Entry{Headshot: "https://static.example/jj.png"})
	resolver := &display.Resolver{Index: idx}

	if got := resolver.Headshot(display.Row{Headshot: "https://cdn.example/own.png"}); got != "https://cdn.example/own.png" {
		t.Fatalf("own headshot = %q", got)
	}
	if got := resolver.Headshot(display.Row{GsisID: "00-0036322"}); got != "https://static.example/jj.png" {
		t.Fatalf("indexed headshot = %q", got)
	}
	if got := resolver.Headshot(display.Row{SleeperID: "6794"}); got != "https://sleepercdn.com/content/nfl/players/6794.jpg" {
		t.Fatalf("synthesized headshot = %q", got)
	}
	if got := resolver.Headshot(display.Row{SleeperID: "not-numeric"}); got != "" {
		t.Fatalf("non-numeric id synthesized %q, want empty", got)
	}
}

func TestPositionTeamSentinels(t *testing.T) {
	resolver := &display.Resolver{}
	if got := resolver.Position(display.Row{}); got != display.NotAvailable {
		t.Fatalf("Position = %q, want sentinel", got)
	}
	if got := resolver.Team(display.Row{Team: "MIN"}); got != "MIN" {
		t.Fatalf("Team = %q", got)
	}
	if got := display.PositionOrDash("  "); got != display.NotAvailable {
		t.Fatalf("PositionOrDash = %q, want sentinel", got)
	}
	if got := display.TeamOrDash("KC"); got != "KC" {
		t.Fatalf("TeamOrDash = %q", got)
	}
}

func TestCanonicalIDResolution(t *testing.T) {
	idx := display.NewIndex()
	idx.Add(display.KindGsis, "00-0036322", display.Entry{Name: "Justin Jefferson"})
	resolver := &display.Resolver{Index: idx}

	// Indexed ids win over higher-priority unindexed ones.
	row := display.Row{SleeperID: "6794", GsisID: "00-0036322"}
	if got := resolver.CanonicalID(row, ""); got != "00-0036322" {
		t.Fatalf("CanonicalID = %q, want indexed gsis id", got)
	}

	// Without index coverage the row's own fields decide by priority.
	bare := &display.Resolver{}
	if got := bare.CanonicalID(row, ""); got != "6794" {
		t.Fatalf("CanonicalID = %q, want sleeper id", got)
	}
	if got := bare.CanonicalID(display.Row{EspnID: "3139477"}, ""); got != "3139477" {
		t.Fatalf("CanonicalID = %q, want espn id", got)
	}

	// The raw id is the last resort; empty string means irresolvable.
	if got := bare.CanonicalID(display.Row{}, "raw-77"); got != "raw-77" {
		t.Fatalf("CanonicalID = %q, want raw fallback", got)
	}
	if got := bare.CanonicalID(display.Row{}, ""); got != "" {
		t.Fatalf("CanonicalID = %q, want empty sentinel", got)
	}
}
