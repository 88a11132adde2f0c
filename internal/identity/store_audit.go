package identity

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AppendAudit writes one append-only resolution decision record. Audit rows
// are never mutated or deleted.
func (s *Store) AppendAudit(ctx context.Context, entry AuditEntry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return appendAuditTx(ctx, tx, entry)
	})
}

func appendAuditTx(ctx context.Context, tx *sql.Tx, entry AuditEntry) error {
	if entry.Confidence != nil && (*entry.Confidence < 0 || *entry.Confidence > 1) {
		return fmt.Errorf("%w: %v", ErrInvalidConfidence, *entry.Confidence)
	}
	if entry.Method != "" {
		if _, ok := ParseMatchMethod(string(entry.Method)); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMethod, entry.Method)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO match_audit_log (
            action, player_uid, source, external_id, confidence, match_method,
            candidate_count, best_score, runner_up_score, context, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(entry.Action),
		nullableString(entry.PlayerUID),
		normalizeSource(entry.Source),
		entry.ExternalID,
		nullableFloat(entry.Confidence),
		nullableString(string(entry.Method)),
		entry.CandidateCount,
		nullableFloat(entry.BestScore),
		nullableFloat(entry.RunnerUpScore),
		nullableString(entry.Context),
		timestamp(time.Now()),
	); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

// RecentAudit returns the newest audit entries, most recent first.
func (s *Store) RecentAudit(ctx context.Context, limit int) ([]*AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, player_uid, source, external_id, confidence, match_method,
                candidate_count, best_score, runner_up_score, context, created_at
         FROM match_audit_log ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent audit: %w", err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// AuditForRecord returns the full decision trail for one external record,
// oldest first.
func (s *Store) AuditForRecord(ctx context.Context, source, externalID string) ([]*AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, player_uid, source, external_id, confidence, match_method,
                candidate_count, best_score, runner_up_score, context, created_at
         FROM match_audit_log WHERE source = ? AND external_id = ? ORDER BY id`,
		normalizeSource(source), externalID,
	)
	if err != nil {
		return nil, fmt.Errorf("audit for record: %w", err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanAuditEntry(scanner interface{ Scan(dest ...any) error }) (*AuditEntry, error) {
	var (
		entry      AuditEntry
		playerUID  sql.NullString
		confidence sql.NullFloat64
		method     sql.NullString
		bestScore  sql.NullFloat64
		runnerUp   sql.NullFloat64
		contextStr sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		(*string)(&entry.Action),
		&playerUID,
		&entry.Source,
		&entry.ExternalID,
		&confidence,
		&method,
		&entry.CandidateCount,
		&bestScore,
		&runnerUp,
		&contextStr,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	entry.PlayerUID = playerUID.String
	entry.Confidence = floatPtr(confidence)
	entry.Method = MatchMethod(method.String)
	entry.BestScore = floatPtr(bestScore)
	entry.RunnerUpScore = floatPtr(runnerUp)
	entry.Context = contextStr.String
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return &entry, nil
}
