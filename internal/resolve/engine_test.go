package resolve_test

import (
	"context"
	"testing"

	"rosterid/internal/crosswalk"
	"rosterid/internal/identity"
	"rosterid/internal/resolve"
	"rosterid/internal/testsupport"
)

func TestResolveAuthoritativeCreatesNewPlayer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "sleeper",
		ExternalID: "4046",
		Name:       "Patrick Mahomes",
		DOB:        "1995-09-17",
		Position:   "QB",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !outcome.Created || outcome.Queued {
		t.Fatalf("outcome = %+v, want created", outcome)
	}
	if outcome.Method != identity.MethodExact || outcome.Confidence == nil || *outcome.Confidence != 1.0 {
		t.Fatalf("outcome = %+v, want exact at 1.0", outcome)
	}

	ident, err := store.GetIdentifier(ctx, "sleeper", "4046")
	if err != nil {
		t.Fatalf("GetIdentifier: %v", err)
	}
	if ident.PlayerUID != outcome.PlayerUID {
		t.Fatalf("identifier uid %q != outcome uid %q", ident.PlayerUID, outcome.PlayerUID)
	}

	trail, err := store.AuditForRecord(ctx, "sleeper", "4046")
	if err != nil {
		t.Fatalf("AuditForRecord: %v", err)
	}
	if len(trail) != 1 || trail[0].Action != identity.AuditCreated {
		t.Fatalf("audit trail = %+v", trail)
	}
}

func TestResolveNameDOBJoinsExistingPlayer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	seeded, err := engine.Resolve(ctx, resolve.Record{
		Source:     "sleeper",
		ExternalID: "4046",
		Name:       "Patrick Mahomes",
		DOB:        "1995-09-17",
	})
	if err != nil {
		t.Fatalf("seed resolve: %v", err)
	}

	// The builtin alias table folds "Pat Mahomes" onto the canonical key, and
	// the matching birth date isolates the player.
	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "espn",
		ExternalID: "3139477",
		Name:       "Pat Mahomes",
		DOB:        "1995-09-17",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if outcome.Queued || outcome.Created {
		t.Fatalf("outcome = %+v, want plain match", outcome)
	}
	if outcome.PlayerUID != seeded.PlayerUID {
		t.Fatalf("resolved to %q, want %q", outcome.PlayerUID, seeded.PlayerUID)
	}
	if outcome.Method != identity.MethodNameDOB {
		t.Fatalf("method = %q, want name_dob", outcome.Method)
	}
	if outcome.Confidence == nil || *outcome.Confidence < 0.85 || *outcome.Confidence > 0.95 {
		t.Fatalf("confidence = %v, want within [0.85, 0.95]", outcome.Confidence)
	}

	players, err := store.AllPlayers(ctx)
	if err != nil {
		t.Fatalf("AllPlayers: %v", err)
	}
	if len(players) != 1 {
		t.Fatalf("player count = %d, want 1 (no duplicate created)", len(players))
	}
}

func TestResolveNameDOBSurvivesTeamCodeMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	seeded := testsupport.NewPlayer(t, store, identity.CreatePlayerParams{
		CanonicalName: "Patrick Mahomes",
		Position:      "QB",
		BirthDate:     "1995-09-17",
		CurrentTeam:   "KC",
	})

	// The feed spells the team "KAN" where the registry holds "KC". The
	// birth date still isolates the player; the mismatched code must not
	// push an exact-name match down to fuzzy scoring.
	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "espn",
		ExternalID: "3139477",
		Name:       "Patrick Mahomes",
		Team:       "KAN",
		DOB:        "1995-09-17",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if outcome.Queued || outcome.Created {
		t.Fatalf("outcome = %+v, want plain match", outcome)
	}
	if outcome.PlayerUID != seeded.UID {
		t.Fatalf("resolved to %q, want %q", outcome.PlayerUID, seeded.UID)
	}
	if outcome.Method != identity.MethodNameDOB {
		t.Fatalf("method = %q, want name_dob", outcome.Method)
	}
}

func TestResolveAmbiguousNameQueuesBoth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Mike Williams", Position: "WR"})
	testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Mike Williams", Position: "WR"})

	for _, externalID := range []string{"111", "222"} {
		outcome, err := engine.Resolve(ctx, resolve.Record{
			Source:     "espn",
			ExternalID: externalID,
			Name:       "Mike Williams",
			Position:   "WR",
		})
		if err != nil {
			t.Fatalf("Resolve(%s): %v", externalID, err)
		}
		if !outcome.Queued || outcome.PlayerUID != "" {
			t.Fatalf("outcome = %+v, want queued with no uid", outcome)
		}

		entry, err := store.OpenQueueEntry(ctx, "espn", externalID)
		if err != nil {
			t.Fatalf("OpenQueueEntry(%s): %v", externalID, err)
		}
		if entry == nil || entry.CandidateCount != 2 || entry.Status != identity.QueuePending {
			t.Fatalf("queue entry = %+v, want pending with 2 candidates", entry)
		}

		if _, err := store.GetIdentifier(ctx, "espn", externalID); err == nil {
			t.Fatalf("identifier written for ambiguous record %s", externalID)
		}
	}
}

func TestResolveRepeatIsIdempotentAndRecordsAlias(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	first, err := engine.Resolve(ctx, resolve.Record{
		Source:     "sleeper",
		ExternalID: "4046",
		Name:       "Patrick Mahomes",
	})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	second, err := engine.Resolve(ctx, resolve.Record{
		Source:     "sleeper",
		ExternalID: "4046",
		Name:       "Showtime Mahomes",
	})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second.PlayerUID != first.PlayerUID {
		t.Fatalf("repeat resolved to %q, want %q", second.PlayerUID, first.PlayerUID)
	}
	if second.Method != identity.MethodExact {
		t.Fatalf("repeat method = %q, want exact", second.Method)
	}

	count, err := store.CountIdentifiers(ctx, "sleeper")
	if err != nil {
		t.Fatalf("CountIdentifiers: %v", err)
	}
	if count != 1 {
		t.Fatalf("identifier count = %d, want 1", count)
	}

	aliases, err := store.AliasesForPlayer(ctx, first.PlayerUID)
	if err != nil {
		t.Fatalf("AliasesForPlayer: %v", err)
	}
	if len(aliases) != 1 || aliases[0].Alias != "Showtime Mahomes" || aliases[0].Type != identity.AliasVariation {
		t.Fatalf("aliases = %+v, want the changed spelling as a variation", aliases)
	}
}

func TestResolveCrosswalkLink(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	xwalk := crosswalk.NewTable(crosswalk.Link{
		SourceA: "espn", IDA: "3139477",
		SourceB: "gsis", IDB: "00-0033873",
	})
	engine := resolve.NewEngine(store, nil, xwalk, cfg, nil)
	ctx := context.Background()

	player := testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Patrick Mahomes"})
	if err := store.UpsertIdentifier(ctx, identity.UpsertIdentifierParams{
		PlayerUID:  player.UID,
		Source:     "gsis",
		ExternalID: "00-0033873",
		Confidence: 1.0,
		Method:     identity.MethodExact,
	}); err != nil {
		t.Fatalf("seed gsis identifier: %v", err)
	}

	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "espn",
		ExternalID: "3139477",
		Name:       "P. Mahomes",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if outcome.Method != identity.MethodCrosswalk || outcome.PlayerUID != player.UID {
		t.Fatalf("outcome = %+v, want crosswalk match to %s", outcome, player.UID)
	}
	if outcome.Confidence == nil || *outcome.Confidence < 0.95 {
		t.Fatalf("confidence = %v, want >= 0.95", outcome.Confidence)
	}
}

func TestResolveNicknameNameOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	player := testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Marquise Brown", Position: "WR"})

	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "espn",
		ExternalID: "4241372",
		Name:       "Hollywood Brown",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if outcome.PlayerUID != player.UID || outcome.Method != identity.MethodNameOnly {
		t.Fatalf("outcome = %+v, want name_only match to %s", outcome, player.UID)
	}
}

func TestResolveFuzzyAcceptsCloseSpelling(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	player := testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Jaylen Waddle", Position: "WR"})

	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "espn",
		ExternalID: "4372016",
		Name:       "Jalen Waddle",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if outcome.Queued {
		t.Fatalf("outcome = %+v, want fuzzy acceptance", outcome)
	}
	if outcome.PlayerUID != player.UID || outcome.Method != identity.MethodFuzzy {
		t.Fatalf("outcome = %+v, want fuzzy match to %s", outcome, player.UID)
	}
	if outcome.Confidence == nil || *outcome.Confidence < cfg.Matching.FuzzyAccept {
		t.Fatalf("confidence = %v, want >= accept threshold", outcome.Confidence)
	}
}

func TestResolveFuzzyTieQueuesInsteadOfCreating(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithAuthoritative("sleeper"),
		testsupport.WithFuzzyThresholds(0.5, 0.45))
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Mike Evans"})
	testsupport.NewPlayer(t, store, identity.CreatePlayerParams{CanonicalName: "Mike Edwards"})

	// Best score clears the (lowered) threshold but the runner-up is too
	// close; even the authoritative source must not mint a player here.
	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "sleeper",
		ExternalID: "9000",
		Name:       "Mike Evan",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !outcome.Queued || outcome.Created {
		t.Fatalf("outcome = %+v, want queued", outcome)
	}

	entry, err := store.OpenQueueEntry(ctx, "sleeper", "9000")
	if err != nil {
		t.Fatalf("OpenQueueEntry: %v", err)
	}
	if entry == nil || entry.CandidateCount < 2 {
		t.Fatalf("queue entry = %+v, want both near candidates captured", entry)
	}
}

func TestResolveUnknownNonAuthoritativeQueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "espn",
		ExternalID: "424242",
		Name:       "Zay Flowers",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !outcome.Queued {
		t.Fatalf("outcome = %+v, want queued", outcome)
	}

	players, err := store.AllPlayers(ctx)
	if err != nil {
		t.Fatalf("AllPlayers: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("player count = %d, want 0", len(players))
	}
}

func TestResolveEmptyNameKeySkips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)
	ctx := context.Background()

	outcome, err := engine.Resolve(ctx, resolve.Record{
		Source:     "espn",
		ExternalID: "31",
		Name:       "...",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if outcome.Queued || outcome.PlayerUID != "" || outcome.Method != "" {
		t.Fatalf("outcome = %+v, want skip", outcome)
	}

	trail, err := store.AuditForRecord(ctx, "espn", "31")
	if err != nil {
		t.Fatalf("AuditForRecord: %v", err)
	}
	if len(trail) != 1 || trail[0].Action != identity.AuditQualityCheck {
		t.Fatalf("audit trail = %+v, want one quality_check entry", trail)
	}
}

func TestResolveRequiresSourceAndID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := resolve.NewEngine(store, nil, nil, cfg, nil)

	if _, err := engine.Resolve(context.Background(), resolve.Record{Name: "Someone"}); err == nil {
		t.Fatal("expected error for missing source and external id")
	}
}
