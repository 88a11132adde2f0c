package identity

import (
	"context"
	"fmt"
)

// MethodCount is one row of the match-method distribution.
type MethodCount struct {
	Method MatchMethod
	Count  int
}

// MethodDistribution returns identifier counts grouped by match method,
// largest first.
func (s *Store) MethodDistribution(ctx context.Context) ([]MethodCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_method, COUNT(1) FROM player_identifiers
         GROUP BY match_method ORDER BY COUNT(1) DESC, match_method`)
	if err != nil {
		return nil, fmt.Errorf("method distribution: %w", err)
	}
	defer rows.Close()

	var counts []MethodCount
	for rows.Next() {
		var row MethodCount
		if err := rows.Scan((*string)(&row.Method), &row.Count); err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}
	return counts, rows.Err()
}

// SourceConfidence summarizes identifier confidence for one source.
type SourceConfidence struct {
	Source        string
	Identifiers   int
	AvgConfidence float64
	MinConfidence float64
	Unverified    int
}

// SourceConfidenceStats returns per-source confidence summaries ordered by
// source tag. Unverified counts identifiers with no verified_at timestamp.
func (s *Store) SourceConfidenceStats(ctx context.Context) ([]SourceConfidence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(1), AVG(confidence), MIN(confidence),
                SUM(CASE WHEN verified_at IS NULL THEN 1 ELSE 0 END)
         FROM player_identifiers GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("source confidence stats: %w", err)
	}
	defer rows.Close()

	var stats []SourceConfidence
	for rows.Next() {
		var row SourceConfidence
		if err := rows.Scan(&row.Source, &row.Identifiers, &row.AvgConfidence, &row.MinConfidence, &row.Unverified); err != nil {
			return nil, err
		}
		stats = append(stats, row)
	}
	return stats, rows.Err()
}

// CountPlayers returns the number of canonical players.
func (s *Store) CountPlayers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}
