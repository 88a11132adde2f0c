package report_test

import (
	"context"
	"testing"

	"rosterid/internal/identity"
	"rosterid/internal/report"
	"rosterid/internal/testsupport"
)

func TestBuildReport(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	jefferson := testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Justin Jefferson"})
	chase := testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Ja'Marr Chase"})

	seeds := []identity.UpsertIdentifierParams{
		{PlayerUID: jefferson.UID, Source: "sleeper", ExternalID: "6794", Confidence: 1.0, Method: identity.MethodExact},
		{PlayerUID: jefferson.UID, Source: "espn", ExternalID: "4262921", Confidence: 0.9, Method: identity.MethodNameDOB},
		{PlayerUID: chase.UID, Source: "espn", ExternalID: "4362628", Confidence: 0.8, Method: identity.MethodNameOnly},
	}
	for _, seed := range seeds {
		if err := store.UpsertIdentifier(ctx, seed); err != nil {
			t.Fatalf("seed identifier %s/%s: %v", seed.Source, seed.ExternalID, err)
		}
	}
	if _, err := store.UpsertQueueEntry(ctx, identity.UpsertQueueParams{
		Source: "espn", ExternalID: "111", RecordName: "Mike Williams",
	}); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	if err := store.AppendAudit(ctx, identity.AuditEntry{
		Action: identity.AuditQueued, Source: "espn", ExternalID: "111",
	}); err != nil {
		t.Fatalf("seed audit: %v", err)
	}

	rep, err := report.Build(ctx, store)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if rep.Players != 2 || rep.Identifiers != 3 {
		t.Fatalf("players=%d identifiers=%d, want 2 and 3", rep.Players, rep.Identifiers)
	}

	methods := make(map[identity.MatchMethod]int)
	for _, row := range rep.Methods {
		methods[row.Method] = row.Count
	}
	if methods[identity.MethodExact] != 1 || methods[identity.MethodNameDOB] != 1 || methods[identity.MethodNameOnly] != 1 {
		t.Fatalf("method distribution = %+v", rep.Methods)
	}

	var espn *identity.SourceConfidence
	for i := range rep.Sources {
		if rep.Sources[i].Source == "espn" {
			espn = &rep.Sources[i]
		}
	}
	if espn == nil {
		t.Fatalf("no espn stats in %+v", rep.Sources)
	}
	if espn.Identifiers != 2 || espn.MinConfidence != 0.8 {
		t.Fatalf("espn stats = %+v", *espn)
	}
	if avg := espn.AvgConfidence; avg < 0.84 || avg > 0.86 {
		t.Fatalf("espn avg confidence = %f, want ~0.85", avg)
	}

	if rep.OpenQueueDepth() != 1 {
		t.Fatalf("open queue depth = %d, want 1", rep.OpenQueueDepth())
	}
	if rep.Unverified() != 3 {
		t.Fatalf("unverified = %d, want 3 (no identifier verified)", rep.Unverified())
	}
	if len(rep.RecentAudit) != 1 {
		t.Fatalf("recent audit len = %d, want 1", len(rep.RecentAudit))
	}
}
