package identity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rosterid/internal/namenorm"
)

// MatchWrite is the full per-record success write: the identifier mapping,
// the observed-name alias when it differs from canonical, and the audit row,
// committed atomically. A partially applied record is never visible.
type MatchWrite struct {
	Identifier   UpsertIdentifierParams
	ObservedName string
	Audit        AuditEntry
}

// RecordMatch applies a successful resolution in one transaction.
func (s *Store) RecordMatch(ctx context.Context, write MatchWrite) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertIdentifierTx(ctx, tx, write.Identifier); err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx,
			`SELECT canonical_name_norm FROM players WHERE player_uid = ?`,
			write.Identifier.PlayerUID,
		)
		var canonicalNorm string
		if err := row.Scan(&canonicalNorm); err != nil {
			return fmt.Errorf("load matched player: %w", err)
		}

		if observed := strings.TrimSpace(write.ObservedName); observed != "" {
			if err := maybeAddVariationTx(ctx, tx, write.Identifier.PlayerUID, observed, write.Identifier.Source, canonicalNorm); err != nil {
				return err
			}
		}

		// A record matched by the engine no longer needs review; close any
		// stale open queue entry so the one-open-entry invariant holds.
		if _, err := tx.ExecContext(ctx,
			`UPDATE resolution_queue
             SET status = 'resolved', resolution_uid = ?, resolution_method = ?,
                 resolved_by = 'engine', updated_at = ?, resolved_at = ?
             WHERE source = ? AND external_id = ? AND status <> 'resolved'`,
			write.Identifier.PlayerUID,
			string(write.Identifier.Method),
			timestamp(time.Now()),
			timestamp(time.Now()),
			normalizeSource(write.Identifier.Source),
			strings.TrimSpace(write.Identifier.ExternalID),
		); err != nil {
			return fmt.Errorf("close stale queue entry: %w", err)
		}

		return appendAuditTx(ctx, tx, write.Audit)
	})
}

// QueueWrite is the per-record write for an unresolved record: the queue
// upsert plus the audit row in one transaction.
type QueueWrite struct {
	Queue UpsertQueueParams
	Audit AuditEntry
}

// RecordQueue applies an unresolved outcome atomically and returns the open
// queue entry.
func (s *Store) RecordQueue(ctx context.Context, write QueueWrite) (*QueueEntry, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertQueueEntryTx(ctx, tx, write.Queue); err != nil {
			return err
		}
		return appendAuditTx(ctx, tx, write.Audit)
	})
	if err != nil {
		return nil, err
	}
	return s.OpenQueueEntry(ctx, write.Queue.Source, write.Queue.ExternalID)
}

// CreateWrite is the per-record write for a brand-new player: the player row,
// its first identifier, and the audit row in one transaction.
type CreateWrite struct {
	Player     CreatePlayerParams
	Source     string
	ExternalID string
	Confidence float64
	Method     MatchMethod
	Audit      AuditEntry
}

// RecordCreate creates a player and its first identifier atomically, returning
// the new player.
func (s *Store) RecordCreate(ctx context.Context, write CreateWrite) (*Player, error) {
	var player *Player
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		player, err = createPlayerTx(ctx, tx, write.Player)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := upsertIdentifierTx(ctx, tx, UpsertIdentifierParams{
			PlayerUID:  player.UID,
			Source:     write.Source,
			ExternalID: write.ExternalID,
			Confidence: write.Confidence,
			Method:     write.Method,
			VerifiedAt: &now,
		}); err != nil {
			return err
		}

		audit := write.Audit
		audit.PlayerUID = player.UID
		return appendAuditTx(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// maybeAddVariationTx records the observed spelling as a variation alias when
// its normalized form differs from the player's canonical key.
func maybeAddVariationTx(ctx context.Context, tx *sql.Tx, playerUID, observedName, source, canonicalNorm string) error {
	observedNorm := namenorm.Normalize(observedName)
	if observedNorm == "" || observedNorm == canonicalNorm {
		return nil
	}
	return addAliasTx(ctx, tx, AddAliasParams{
		PlayerUID: playerUID,
		Alias:     observedName,
		Source:    source,
		Type:      AliasVariation,
	})
}
