package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertIdentifierParams describes one (source, external_id) -> player mapping.
type UpsertIdentifierParams struct {
	PlayerUID  string
	Source     string
	ExternalID string
	Confidence float64
	Method     MatchMethod
	VerifiedAt *time.Time
}

func (p *UpsertIdentifierParams) validate() error {
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidConfidence, p.Confidence)
	}
	if _, ok := ParseMatchMethod(string(p.Method)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, p.Method)
	}
	if strings.TrimSpace(p.PlayerUID) == "" {
		return errors.New("identity: player uid required")
	}
	if normalizeSource(p.Source) == "" || strings.TrimSpace(p.ExternalID) == "" {
		return errors.New("identity: source and external id required")
	}
	return nil
}

// UpsertIdentifier writes an identifier mapping idempotently. Re-running with
// the same mapping confirms the existing row; a concurrent duplicate insert
// converges on the winner's row. Repointing an external id at a different
// player fails with ErrIdentifierConflict and must go through manual override.
func (s *Store) UpsertIdentifier(ctx context.Context, params UpsertIdentifierParams) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return upsertIdentifierTx(ctx, tx, params)
	})
}

func upsertIdentifierTx(ctx context.Context, tx *sql.Tx, params UpsertIdentifierParams) error {
	if err := params.validate(); err != nil {
		return err
	}

	source := normalizeSource(params.Source)
	externalID := strings.TrimSpace(params.ExternalID)
	now := timestamp(time.Now())

	// Insert-or-ignore then read back: a lost race degrades to confirming
	// whichever row won, never to a duplicate or an error.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO player_identifiers (
            player_uid, source, external_id, confidence, match_method,
            verified_at, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (source, external_id) DO NOTHING`,
		params.PlayerUID,
		source,
		externalID,
		params.Confidence,
		string(params.Method),
		nullableTime(params.VerifiedAt),
		now,
		now,
	); err != nil {
		return fmt.Errorf("insert identifier: %w", err)
	}

	var existingUID string
	row := tx.QueryRowContext(ctx,
		`SELECT player_uid FROM player_identifiers WHERE source = ? AND external_id = ?`,
		source, externalID,
	)
	if err := row.Scan(&existingUID); err != nil {
		return fmt.Errorf("read identifier: %w", err)
	}

	if existingUID != params.PlayerUID {
		// Manual override is the only path allowed to repoint a mapping.
		if params.Method != MethodManual {
			return fmt.Errorf("%w: (%s, %s) -> %s", ErrIdentifierConflict, source, externalID, existingUID)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE player_identifiers
             SET player_uid = ?, confidence = ?, match_method = ?, verified_at = ?, updated_at = ?
             WHERE source = ? AND external_id = ?`,
			params.PlayerUID, params.Confidence, string(params.Method),
			nullableTime(params.VerifiedAt), now, source, externalID,
		); err != nil {
			return fmt.Errorf("override identifier: %w", err)
		}
		return nil
	}

	// Confirm path: refresh confidence/method without changing the mapping.
	if _, err := tx.ExecContext(ctx,
		`UPDATE player_identifiers
         SET confidence = ?, match_method = ?, verified_at = COALESCE(?, verified_at), updated_at = ?
         WHERE source = ? AND external_id = ?`,
		params.Confidence, string(params.Method),
		nullableTime(params.VerifiedAt), now, source, externalID,
	); err != nil {
		return fmt.Errorf("confirm identifier: %w", err)
	}
	return nil
}

// GetIdentifier fetches one identifier mapping.
func (s *Store) GetIdentifier(ctx context.Context, source, externalID string) (*Identifier, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+identifierColumns+` FROM player_identifiers WHERE source = ? AND external_id = ?`,
		normalizeSource(source), strings.TrimSpace(externalID),
	)
	ident, err := scanIdentifier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identifier: %w", err)
	}
	return ident, nil
}

// IdentifiersForPlayer lists every source mapping for a player.
func (s *Store) IdentifiersForPlayer(ctx context.Context, uid string) ([]*Identifier, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+identifierColumns+` FROM player_identifiers WHERE player_uid = ? ORDER BY source, external_id`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("list identifiers: %w", err)
	}
	defer rows.Close()

	var idents []*Identifier
	for rows.Next() {
		ident, err := scanIdentifier(rows)
		if err != nil {
			return nil, err
		}
		idents = append(idents, ident)
	}
	return idents, rows.Err()
}

// CountIdentifiers returns the number of identifier rows, optionally filtered
// by source.
func (s *Store) CountIdentifiers(ctx context.Context, source string) (int, error) {
	var (
		count int
		err   error
	)
	if source == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM player_identifiers`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM player_identifiers WHERE source = ?`, normalizeSource(source),
		).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count identifiers: %w", err)
	}
	return count, nil
}

const identifierColumns = "id, player_uid, source, external_id, confidence, match_method, verified_at, created_at, updated_at"

func scanIdentifier(scanner interface{ Scan(dest ...any) error }) (*Identifier, error) {
	var (
		id          int64
		playerUID   string
		source      string
		externalID  string
		confidence  float64
		methodStr   string
		verifiedRaw sql.NullString
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(&id, &playerUID, &source, &externalID, &confidence, &methodStr, &verifiedRaw, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	ident := &Identifier{
		ID:         id,
		PlayerUID:  playerUID,
		Source:     source,
		ExternalID: externalID,
		Confidence: confidence,
		Method:     MatchMethod(methodStr),
		VerifiedAt: timePtr(verifiedRaw),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		ident.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		ident.UpdatedAt = updated
	}
	return ident, nil
}
