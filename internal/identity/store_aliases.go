package identity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rosterid/internal/namenorm"
)

// AddAliasParams describes one observed alternate name for a player.
type AddAliasParams struct {
	PlayerUID string
	Alias     string
	Source    string
	Type      AliasType
}

// AddAlias appends an alias row. Duplicate (player_uid, alias_norm) pairs are
// no-ops, so re-ingesting the same spelling is safe.
func (s *Store) AddAlias(ctx context.Context, params AddAliasParams) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return addAliasTx(ctx, tx, params)
	})
}

func addAliasTx(ctx context.Context, tx *sql.Tx, params AddAliasParams) error {
	aliasName := strings.TrimSpace(params.Alias)
	aliasNorm := namenorm.Normalize(aliasName)
	if aliasNorm == "" {
		return ErrEmptyNameKey
	}

	aliasType := params.Type
	if aliasType == "" {
		aliasType = AliasVariation
	}
	if _, ok := ParseAliasType(string(aliasType)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, aliasType)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO player_aliases (player_uid, alias, alias_norm, source, alias_type, created_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT (player_uid, alias_norm) DO NOTHING`,
		params.PlayerUID,
		aliasName,
		aliasNorm,
		nullableString(normalizeSource(params.Source)),
		string(aliasType),
		timestamp(time.Now()),
	); err != nil {
		return fmt.Errorf("insert alias: %w", err)
	}
	return nil
}

// AliasesForPlayer lists recorded aliases for a player.
func (s *Store) AliasesForPlayer(ctx context.Context, uid string) ([]*Alias, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_uid, alias, alias_norm, source, alias_type, created_at
         FROM player_aliases WHERE player_uid = ? ORDER BY created_at, id`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []*Alias
	for rows.Next() {
		var (
			entry      Alias
			source     sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&entry.ID, &entry.PlayerUID, &entry.Alias, &entry.AliasNorm, &source, (*string)(&entry.Type), &createdRaw); err != nil {
			return nil, err
		}
		entry.Source = source.String
		if created, err := parseTimeString(createdRaw); err == nil {
			entry.CreatedAt = created
		}
		aliases = append(aliases, &entry)
	}
	return aliases, rows.Err()
}

// AddNameHistoryParams describes a time-bounded display/legal name span.
type AddNameHistoryParams struct {
	PlayerUID string
	Name      string
	StartDate string
	EndDate   string
}

// AddNameHistory records a name span. Spans for one player must not overlap,
// and end_date must not precede start_date. Dates are ISO "2006-01-02".
func (s *Store) AddNameHistory(ctx context.Context, params AddNameHistoryParams) error {
	start, err := parseDate(params.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start_date %q", ErrInvalidRange, params.StartDate)
	}
	var end *time.Time
	if strings.TrimSpace(params.EndDate) != "" {
		parsed, err := parseDate(params.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end_date %q", ErrInvalidRange, params.EndDate)
		}
		if parsed.Before(start) {
			return ErrInvalidRange
		}
		end = &parsed
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT start_date, end_date FROM player_name_history WHERE player_uid = ?`,
			params.PlayerUID,
		)
		if err != nil {
			return fmt.Errorf("read name history: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				startRaw string
				endRaw   sql.NullString
			)
			if err := rows.Scan(&startRaw, &endRaw); err != nil {
				return err
			}
			existingStart, err := parseDate(startRaw)
			if err != nil {
				continue
			}
			var existingEnd *time.Time
			if endRaw.Valid {
				if parsed, err := parseDate(endRaw.String); err == nil {
					existingEnd = &parsed
				}
			}
			if rangesOverlap(start, end, existingStart, existingEnd) {
				return ErrNameHistoryOverlap
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_name_history (player_uid, name, start_date, end_date, created_at)
             VALUES (?, ?, ?, ?, ?)`,
			params.PlayerUID,
			strings.TrimSpace(params.Name),
			params.StartDate,
			nullableString(params.EndDate),
			timestamp(time.Now()),
		); err != nil {
			return fmt.Errorf("insert name history: %w", err)
		}
		return nil
	})
}

// NameHistoryForPlayer lists name spans ordered by start date.
func (s *Store) NameHistoryForPlayer(ctx context.Context, uid string) ([]*NameHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player_uid, name, start_date, end_date, created_at
         FROM player_name_history WHERE player_uid = ? ORDER BY start_date`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("list name history: %w", err)
	}
	defer rows.Close()

	var spans []*NameHistory
	for rows.Next() {
		var (
			span       NameHistory
			endRaw     sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&span.ID, &span.PlayerUID, &span.Name, &span.StartDate, &endRaw, &createdRaw); err != nil {
			return nil, err
		}
		span.EndDate = endRaw.String
		if created, err := parseTimeString(createdRaw); err == nil {
			span.CreatedAt = created
		}
		spans = append(spans, &span)
	}
	return spans, rows.Err()
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

// rangesOverlap treats a nil end as open-ended.
func rangesOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && aEnd.Before(bStart) {
		return false
	}
	if bEnd != nil && bEnd.Before(aStart) {
		return false
	}
	return true
}
