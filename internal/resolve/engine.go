package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"rosterid/internal/alias"
	"rosterid/internal/config"
	"rosterid/internal/crosswalk"
	"rosterid/internal/identity"
	"rosterid/internal/logging"
	"rosterid/internal/textutil"
)

// Record is one external player observation to resolve.
type Record struct {
	Source     string `json:"source"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Team       string `json:"team,omitempty"`
	Position   string `json:"position,omitempty"`
	DOB        string `json:"dob,omitempty"`
	College    string `json:"college,omitempty"`
}

// Outcome is the engine's decision for one record. Queued outcomes carry no
// player uid and a nil confidence. A record whose name normalizes to the
// empty sentinel is skipped: neither matched nor queued.
type Outcome struct {
	PlayerUID  string
	Confidence *float64
	Method     identity.MatchMethod
	Queued     bool
	Created    bool
}

// Engine runs the resolution decision ladder against the identity store.
type Engine struct {
	store     *identity.Store
	aliases   *alias.Registry
	crosswalk *crosswalk.Table
	cfg       *config.Config
	logger    *slog.Logger
}

// NewEngine wires a resolution engine. A nil alias registry falls back to the
// builtin table and a nil crosswalk table to an empty one.
func NewEngine(store *identity.Store, aliases *alias.Registry, xwalk *crosswalk.Table, cfg *config.Config, logger *slog.Logger) *Engine {
	if aliases == nil {
		aliases = alias.NewRegistry(alias.Builtin()...)
	}
	if xwalk == nil {
		xwalk = crosswalk.NewTable()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:     store,
		aliases:   aliases,
		crosswalk: xwalk,
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "resolve"),
	}
}

// Resolve maps one record onto a canonical player. Unresolvable records queue
// for manual review rather than erroring; only store failures and integrity
// violations return an error. Exactly one audit row is written per call.
func (e *Engine) Resolve(ctx context.Context, record Record) (Outcome, error) {
	source := strings.ToLower(strings.TrimSpace(record.Source))
	externalID := strings.TrimSpace(record.ExternalID)
	if source == "" || externalID == "" {
		return Outcome{}, fmt.Errorf("resolve: source and external id required")
	}

	// Step 1: the id is already mapped.
	if player, err := e.store.FindBySourceID(ctx, source, externalID); err != nil {
		return Outcome{}, err
	} else if player != nil {
		return e.accept(ctx, record, player, 1.0, identity.MethodExact, 0, nil, nil)
	}

	// Step 2: a trusted crosswalk link points at an id mapped under another
	// source.
	for _, ref := range e.crosswalk.Lookup(source, externalID) {
		player, err := e.store.FindBySourceID(ctx, ref.Source, ref.ExternalID)
		if err != nil {
			return Outcome{}, err
		}
		if player != nil {
			return e.accept(ctx, record, player, e.cfg.Matching.CrosswalkConfidence, identity.MethodCrosswalk, 0, nil, nil)
		}
	}

	// Undecidable input: an empty normalized key must never be matched on.
	key := e.aliases.Lookup(record.Name, alias.Metadata{Team: record.Team, Pos: record.Position})
	if key == "" {
		e.logger.Warn("record name normalizes to empty, skipping",
			logging.String("source", source),
			logging.String("external_id", externalID))
		if err := e.store.AppendAudit(ctx, identity.AuditEntry{
			Action:     identity.AuditQualityCheck,
			Source:     source,
			ExternalID: externalID,
			Context:    fmt.Sprintf("name %q normalizes to empty key", record.Name),
		}); err != nil {
			return Outcome{}, err
		}
		return Outcome{}, nil
	}

	candidates, err := e.store.FindCandidatesByNormalizedName(ctx, key, identity.CandidateFilter{})
	if err != nil {
		return Outcome{}, err
	}

	// Step 3: birth date isolates a single candidate. The search here is by
	// normalized name alone: platforms disagree on team abbreviations, and a
	// stale or differently-coded team must not veto a birth date match.
	if dob := strings.TrimSpace(record.DOB); dob != "" {
		var dobMatches []*identity.Player
		for _, candidate := range candidates {
			if candidate.BirthDate == dob {
				dobMatches = append(dobMatches, candidate)
			}
		}
		if len(dobMatches) == 1 {
			return e.accept(ctx, record, dobMatches[0], e.cfg.Matching.NameDOBConfidence, identity.MethodNameDOB, len(candidates), nil, nil)
		}
		if len(dobMatches) > 1 {
			return e.queue(ctx, record, key, dobMatches, 1)
		}
	}

	// Step 4: the normalized name isolates a single candidate, with
	// team/position metadata narrowing the field when several share the name.
	// Narrowing that would eliminate every candidate is ignored: the name
	// still matched, so the record is ambiguous rather than unseen.
	narrowed := candidates
	if len(candidates) > 1 && (record.Team != "" || record.Position != "") {
		filtered, err := e.store.FindCandidatesByNormalizedName(ctx, key, identity.CandidateFilter{
			Team:     record.Team,
			Position: record.Position,
		})
		if err != nil {
			return Outcome{}, err
		}
		if len(filtered) > 0 {
			narrowed = filtered
		}
	}
	if len(narrowed) == 1 {
		return e.accept(ctx, record, narrowed[0], e.cfg.Matching.NameOnlyConfidence, identity.MethodNameOnly, len(candidates), nil, nil)
	}
	if len(narrowed) > 1 {
		return e.queue(ctx, record, key, narrowed, 1)
	}

	// Step 5: no exact normalized match anywhere; fall back to similarity
	// over every canonical name.
	scored, err := e.fuzzyCandidates(ctx, key)
	if err != nil {
		return Outcome{}, err
	}
	if len(scored) > 0 {
		best := scored[0]
		runnerUp := 0.0
		if len(scored) > 1 {
			runnerUp = scored[1].Score
		}
		if best.Score >= e.cfg.Matching.FuzzyAccept {
			if best.Score-runnerUp >= e.cfg.Matching.FuzzyMargin {
				player, err := e.store.GetPlayer(ctx, best.PlayerUID)
				if err != nil {
					return Outcome{}, err
				}
				runnerPtr := (*float64)(nil)
				if len(scored) > 1 {
					runnerPtr = &runnerUp
				}
				return e.accept(ctx, record, player, best.Score, identity.MethodFuzzy, len(scored), &best.Score, runnerPtr)
			}
			// Two near-identical names is ambiguity, not a miss; a new
			// player must not be created here even for trusted sources.
			return e.queueScored(ctx, record, scored, 1)
		}
	}

	// Step 6: unresolved. Trusted roster feeds create the player; everything
	// else waits for review.
	if e.cfg.IsAuthoritative(source) {
		return e.create(ctx, record)
	}
	return e.queueScored(ctx, record, scored, 0)
}

func (e *Engine) accept(ctx context.Context, record Record, player *identity.Player, confidence float64, method identity.MatchMethod, candidateCount int, bestScore, runnerUp *float64) (Outcome, error) {
	source := strings.ToLower(strings.TrimSpace(record.Source))
	externalID := strings.TrimSpace(record.ExternalID)

	err := e.store.RecordMatch(ctx, identity.MatchWrite{
		Identifier: identity.UpsertIdentifierParams{
			PlayerUID:  player.UID,
			Source:     source,
			ExternalID: externalID,
			Confidence: confidence,
			Method:     method,
		},
		ObservedName: record.Name,
		Audit: identity.AuditEntry{
			Action:         identity.AuditMatched,
			PlayerUID:      player.UID,
			Source:         source,
			ExternalID:     externalID,
			Confidence:     &confidence,
			Method:         method,
			CandidateCount: candidateCount,
			BestScore:      bestScore,
			RunnerUpScore:  runnerUp,
		},
	})
	if err != nil {
		return Outcome{}, err
	}

	e.logger.Info("record matched",
		logging.String("source", source),
		logging.String("external_id", externalID),
		logging.String("player_uid", player.UID),
		logging.String("method", string(method)),
		logging.Float64("confidence", confidence))
	return Outcome{PlayerUID: player.UID, Confidence: &confidence, Method: method}, nil
}

func (e *Engine) create(ctx context.Context, record Record) (Outcome, error) {
	source := strings.ToLower(strings.TrimSpace(record.Source))
	externalID := strings.TrimSpace(record.ExternalID)
	confidence := 1.0

	player, err := e.store.RecordCreate(ctx, identity.CreateWrite{
		Player: identity.CreatePlayerParams{
			CanonicalName: record.Name,
			Position:      record.Position,
			BirthDate:     record.DOB,
			CurrentTeam:   record.Team,
			Status:        identity.StatusActive,
		},
		Source:     source,
		ExternalID: externalID,
		Confidence: confidence,
		Method:     identity.MethodExact,
		Audit: identity.AuditEntry{
			Action:     identity.AuditCreated,
			Source:     source,
			ExternalID: externalID,
			Confidence: &confidence,
			Method:     identity.MethodExact,
			Context:    "created from authoritative source",
		},
	})
	if err != nil {
		return Outcome{}, err
	}

	e.logger.Info("player created",
		logging.String("source", source),
		logging.String("external_id", externalID),
		logging.String("player_uid", player.UID),
		logging.String("name", player.CanonicalName))
	return Outcome{PlayerUID: player.UID, Confidence: &confidence, Method: identity.MethodExact, Created: true}, nil
}

func (e *Engine) queue(ctx context.Context, record Record, key string, players []*identity.Player, priority int) (Outcome, error) {
	scored := make([]identity.Candidate, 0, len(players))
	for _, player := range players {
		scored = append(scored, identity.Candidate{
			PlayerUID:     player.UID,
			CanonicalName: player.CanonicalName,
			Score:         textutil.NameSimilarity(key, player.CanonicalNameNorm),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return e.queueScored(ctx, record, scored, priority)
}

func (e *Engine) queueScored(ctx context.Context, record Record, scored []identity.Candidate, priority int) (Outcome, error) {
	source := strings.ToLower(strings.TrimSpace(record.Source))
	externalID := strings.TrimSpace(record.ExternalID)

	var bestScore, runnerUp *float64
	if len(scored) > 0 {
		bestScore = &scored[0].Score
	}
	if len(scored) > 1 {
		runnerUp = &scored[1].Score
	}

	_, err := e.store.RecordQueue(ctx, identity.QueueWrite{
		Queue: identity.UpsertQueueParams{
			Source:        source,
			ExternalID:    externalID,
			RecordName:    record.Name,
			Candidates:    scored,
			BestScore:     bestScore,
			RunnerUpScore: runnerUp,
			Priority:      priority,
		},
		Audit: identity.AuditEntry{
			Action:         identity.AuditQueued,
			Source:         source,
			ExternalID:     externalID,
			CandidateCount: len(scored),
			BestScore:      bestScore,
			RunnerUpScore:  runnerUp,
		},
	})
	if err != nil {
		return Outcome{}, err
	}

	e.logger.Info("record queued for review",
		logging.String("source", source),
		logging.String("external_id", externalID),
		logging.Int("candidates", len(scored)))
	return Outcome{Queued: true}, nil
}

// fuzzyCandidates scores every canonical name against the observed key,
// highest first. Zero scores are dropped.
func (e *Engine) fuzzyCandidates(ctx context.Context, key string) ([]identity.Candidate, error) {
	players, err := e.store.AllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	target := textutil.NewFingerprint(key)
	var scored []identity.Candidate
	for _, player := range players {
		score := textutil.CosineSimilarity(target, textutil.NewFingerprint(player.CanonicalNameNorm))
		if score <= 0 {
			continue
		}
		scored = append(scored, identity.Candidate{
			PlayerUID:     player.UID,
			CanonicalName: player.CanonicalName,
			Score:         score,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored, nil
}
