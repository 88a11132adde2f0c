package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rosterid/internal/namenorm"
)

// CreatePlayerParams carries the attributes for a new canonical player.
type CreatePlayerParams struct {
	CanonicalName string
	Position      string
	BirthDate     string
	CurrentTeam   string
	Status        PlayerStatus
}

// CreatePlayer inserts a new canonical player and returns it. The player_uid
// is assigned here and never changes afterward.
func (s *Store) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	var player *Player
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		player, err = createPlayerTx(ctx, tx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

func createPlayerTx(ctx context.Context, tx *sql.Tx, params CreatePlayerParams) (*Player, error) {
	name := strings.TrimSpace(params.CanonicalName)
	nameNorm := namenorm.Normalize(name)
	if nameNorm == "" {
		return nil, ErrEmptyNameKey
	}

	status := params.Status
	if status == "" {
		status = StatusUnknown
	}
	if _, ok := ParsePlayerStatus(string(status)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	now := time.Now().UTC()
	player := &Player{
		UID:               uuid.NewString(),
		CanonicalName:     name,
		CanonicalNameNorm: nameNorm,
		Position:          strings.ToUpper(strings.TrimSpace(params.Position)),
		BirthDate:         strings.TrimSpace(params.BirthDate),
		CurrentTeam:       strings.ToUpper(strings.TrimSpace(params.CurrentTeam)),
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO players (
            player_uid, canonical_name, canonical_name_norm, position,
            birth_date, current_team, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		player.UID,
		player.CanonicalName,
		player.CanonicalNameNorm,
		nullableString(player.Position),
		nullableString(player.BirthDate),
		nullableString(player.CurrentTeam),
		string(player.Status),
		timestamp(now),
		timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return player, nil
}

// GetPlayer fetches a player by uid.
func (s *Store) GetPlayer(ctx context.Context, uid string) (*Player, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE player_uid = ?`, uid)
	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return player, nil
}

// FindBySourceID returns the player mapped to an external id, or nil when the
// mapping does not exist.
func (s *Store) FindBySourceID(ctx context.Context, source, externalID string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+prefixedPlayerColumns+`
         FROM players p
         JOIN player_identifiers i ON i.player_uid = p.player_uid
         WHERE i.source = ? AND i.external_id = ?`,
		normalizeSource(source), strings.TrimSpace(externalID),
	)
	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by source id: %w", err)
	}
	return player, nil
}

// CandidateFilter narrows candidate searches by optional metadata. Empty
// fields do not constrain.
type CandidateFilter struct {
	Team     string
	Position string
}

// FindCandidatesByNormalizedName returns players whose canonical name or any
// recorded alias normalizes to nameNorm, ordered by creation time. Matching on
// the empty sentinel is refused.
func (s *Store) FindCandidatesByNormalizedName(ctx context.Context, nameNorm string, filter CandidateFilter) ([]*Player, error) {
	if strings.TrimSpace(nameNorm) == "" {
		return nil, ErrEmptyNameKey
	}

	query := `SELECT DISTINCT ` + prefixedPlayerColumns + `
        FROM players p
        LEFT JOIN player_aliases a ON a.player_uid = p.player_uid
        WHERE (p.canonical_name_norm = ? OR a.alias_norm = ?)`
	args := []any{nameNorm, nameNorm}

	if team := strings.ToUpper(strings.TrimSpace(filter.Team)); team != "" {
		query += ` AND (p.current_team IS NULL OR p.current_team = '' OR p.current_team = ?)`
		args = append(args, team)
	}
	if pos := strings.ToUpper(strings.TrimSpace(filter.Position)); pos != "" {
		query += ` AND (p.position IS NULL OR p.position = '' OR p.position = ?)`
		args = append(args, pos)
	}
	query += ` ORDER BY p.created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

// AllPlayers returns every player ordered by canonical name. Used by fuzzy
// matching and CLI listings; roster sizes keep this well within memory.
func (s *Store) AllPlayers(ctx context.Context) ([]*Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY canonical_name`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

// UpdatePlayerStatus transitions a player's roster status. Players are never
// deleted.
func (s *Store) UpdatePlayerStatus(ctx context.Context, uid string, status PlayerStatus) error {
	if _, ok := ParsePlayerStatus(string(status)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET status = ?, updated_at = ? WHERE player_uid = ?`,
		string(status), timestamp(time.Now()), uid,
	)
	if err != nil {
		return fmt.Errorf("update player status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RenamePlayer updates a player's canonical name, keeping the derived
// normalized key in sync and recording the old name as a legal-change alias.
func (s *Store) RenamePlayer(ctx context.Context, uid, newName string) error {
	nameNorm := namenorm.Normalize(newName)
	if nameNorm == "" {
		return ErrEmptyNameKey
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE player_uid = ?`, uid)
		player, err := scanPlayer(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET canonical_name = ?, canonical_name_norm = ?, updated_at = ? WHERE player_uid = ?`,
			strings.TrimSpace(newName), nameNorm, timestamp(now), uid,
		); err != nil {
			return fmt.Errorf("rename player: %w", err)
		}
		return addAliasTx(ctx, tx, AddAliasParams{
			PlayerUID: uid,
			Alias:     player.CanonicalName,
			Type:      AliasLegal,
		})
	})
}

const playerColumns = "player_uid, canonical_name, canonical_name_norm, position, birth_date, current_team, status, created_at, updated_at"

const prefixedPlayerColumns = "p.player_uid, p.canonical_name, p.canonical_name_norm, p.position, p.birth_date, p.current_team, p.status, p.created_at, p.updated_at"

func scanPlayer(scanner interface{ Scan(dest ...any) error }) (*Player, error) {
	var (
		uid        string
		name       string
		nameNorm   string
		position   sql.NullString
		birthDate  sql.NullString
		team       sql.NullString
		statusStr  string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&uid, &name, &nameNorm, &position, &birthDate, &team, &statusStr, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	player := &Player{
		UID:               uid,
		CanonicalName:     name,
		CanonicalNameNorm: nameNorm,
		Position:          position.String,
		BirthDate:         birthDate.String,
		CurrentTeam:       team.String,
		Status:            PlayerStatus(statusStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		player.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		player.UpdatedAt = updated
	}
	return player, nil
}

func normalizeSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}
