package crosswalk_test

import (
	"os"
	"path/filepath"
	"testing"

	"rosterid/internal/crosswalk"
)

func TestLookupBidirectional(t *testing.T) {
	table := crosswalk.NewTable(
		crosswalk.Link{SourceA: "sleeper", IDA: "4046", SourceB: "espn", IDB: "3139477"},
	)

	refs := table.Lookup("sleeper", "4046")
	if len(refs) != 1 || refs[0].Source != "espn" || refs[0].ExternalID != "3139477" {
		t.Fatalf("unexpected refs: %#v", refs)
	}

	back := table.Lookup("espn", "3139477")
	if len(back) != 1 || back[0].Source != "sleeper" || back[0].ExternalID != "4046" {
		t.Fatalf("unexpected reverse refs: %#v", back)
	}
}

func TestLookupNormalizesSourceTag(t *testing.T) {
	table := crosswalk.NewTable(
		crosswalk.Link{SourceA: "Sleeper", IDA: " 4046 ", SourceB: "gsis", IDB: "00-0033873"},
	)
	if refs := table.Lookup("sleeper", "4046"); len(refs) != 1 {
		t.Fatalf("expected tag/id normalization, got %#v", refs)
	}
}

func TestLookupUnknownReturnsNil(t *testing.T) {
	table := crosswalk.NewTable()
	if refs := table.Lookup("sleeper", "999"); refs != nil {
		t.Fatalf("expected nil, got %#v", refs)
	}
}

func TestAddIgnoresBlankLinks(t *testing.T) {
	table := crosswalk.NewTable(
		crosswalk.Link{SourceA: "sleeper", IDA: "", SourceB: "espn", IDB: "1"},
	)
	if table.Len() != 0 {
		t.Fatalf("expected blank link ignored, have %d", table.Len())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crosswalk.toml")
	content := `
[[links]]
source_a = "sleeper"
id_a = "6794"
source_b = "espn"
id_b = "4262921"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write crosswalk file: %v", err)
	}
	table, err := crosswalk.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if refs := table.Lookup("sleeper", "6794"); len(refs) != 1 || refs[0].ExternalID != "4262921" {
		t.Fatalf("unexpected refs: %#v", refs)
	}
}

func TestLoadFileEmptyPath(t *testing.T) {
	table, err := crosswalk.LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if table.Len() != 0 {
		t.Fatal("expected empty table")
	}
}
