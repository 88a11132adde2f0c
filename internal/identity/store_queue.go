package identity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertQueueParams carries the candidate snapshot for an unresolved record.
type UpsertQueueParams struct {
	Source        string
	ExternalID    string
	RecordName    string
	Candidates    []Candidate
	BestScore     *float64
	RunnerUpScore *float64
	Priority      int
}

// UpsertQueueEntry inserts or refreshes the open review item for a record.
// Re-ingesting the same unresolved (source, external_id) updates the existing
// open row; at most one non-resolved entry exists per record.
func (s *Store) UpsertQueueEntry(ctx context.Context, params UpsertQueueParams) (*QueueEntry, error) {
	source := normalizeSource(params.Source)
	externalID := strings.TrimSpace(params.ExternalID)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return upsertQueueEntryTx(ctx, tx, params)
	})
	if err != nil {
		return nil, err
	}
	return s.OpenQueueEntry(ctx, source, externalID)
}

func upsertQueueEntryTx(ctx context.Context, tx *sql.Tx, params UpsertQueueParams) error {
	var bestUID string
	if len(params.Candidates) > 0 {
		bestUID = params.Candidates[0].PlayerUID
	}
	candidatesJSON, err := json.Marshal(params.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}

	source := normalizeSource(params.Source)
	externalID := strings.TrimSpace(params.ExternalID)
	now := timestamp(time.Now())

	// The partial unique index on open rows turns a concurrent insert
	// race into a conflict-update on the surviving row.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO resolution_queue (
                source, external_id, record_name, best_candidate_uid, best_score,
                runner_up_score, candidates_json, candidate_count, status, priority,
                created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?, ?)
            ON CONFLICT (source, external_id) WHERE status <> 'resolved'
            DO UPDATE SET
                record_name = excluded.record_name,
                best_candidate_uid = excluded.best_candidate_uid,
                best_score = excluded.best_score,
                runner_up_score = excluded.runner_up_score,
                candidates_json = excluded.candidates_json,
                candidate_count = excluded.candidate_count,
                status = 'pending',
                priority = MAX(priority, excluded.priority),
                updated_at = excluded.updated_at`,
		source,
		externalID,
		strings.TrimSpace(params.RecordName),
		nullableString(bestUID),
		nullableFloat(params.BestScore),
		nullableFloat(params.RunnerUpScore),
		string(candidatesJSON),
		len(params.Candidates),
		params.Priority,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert queue entry: %w", err)
	}
	return nil
}

// OpenQueueEntry returns the single non-resolved queue entry for a record, or
// nil when none is open.
func (s *Store) OpenQueueEntry(ctx context.Context, source, externalID string) (*QueueEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+queueColumns+` FROM resolution_queue
         WHERE source = ? AND external_id = ? AND status <> 'resolved'`,
		normalizeSource(source), strings.TrimSpace(externalID),
	)
	entry, err := scanQueueEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open queue entry: %w", err)
	}
	return entry, nil
}

// PendingQueue returns entries awaiting review, ordered by priority then age.
func (s *Store) PendingQueue(ctx context.Context) ([]*QueueEntry, error) {
	return s.queueByStatuses(ctx, QueuePending)
}

// QueueEntries returns entries filtered by status set, or all when empty.
func (s *Store) QueueEntries(ctx context.Context, statuses ...QueueStatus) ([]*QueueEntry, error) {
	return s.queueByStatuses(ctx, statuses...)
}

func (s *Store) queueByStatuses(ctx context.Context, statuses ...QueueStatus) ([]*QueueEntry, error) {
	baseQuery := `SELECT ` + queueColumns + ` FROM resolution_queue`
	orderClause := ` ORDER BY priority DESC, created_at ASC`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := make([]string, len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args[i] = string(status)
		}
		query := baseQuery + ` WHERE status IN (` + strings.Join(placeholders, ",") + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list queue entries: %w", err)
	}
	defer rows.Close()

	var entries []*QueueEntry
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// QueueOutcome closes a review item. Status must be resolved, rejected, or
// deferred; resolved outcomes carry the winning player uid.
type QueueOutcome struct {
	Status        QueueStatus
	ResolutionUID string
	Method        MatchMethod
	ResolvedBy    string
}

// CloseQueueEntry transitions the open entry for a record to a closed status.
// Resolving additionally writes the manual identifier mapping, the alias for
// the observed spelling when it differs, and the audit row in one transaction.
func (s *Store) CloseQueueEntry(ctx context.Context, source, externalID string, outcome QueueOutcome) error {
	switch outcome.Status {
	case QueueResolved, QueueRejected, QueueDeferred:
	default:
		return fmt.Errorf("%w: %q is not a closing status", ErrUnknownStatus, outcome.Status)
	}
	if outcome.Status == QueueResolved && strings.TrimSpace(outcome.ResolutionUID) == "" {
		return errors.New("identity: resolution uid required to resolve")
	}

	source = normalizeSource(source)
	externalID = strings.TrimSpace(externalID)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+queueColumns+` FROM resolution_queue
             WHERE source = ? AND external_id = ? AND status <> 'resolved'`,
			source, externalID,
		)
		entry, err := scanQueueEntry(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load queue entry: %w", err)
		}

		method := outcome.Method
		if method == "" {
			method = MethodManual
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE resolution_queue
             SET status = ?, resolution_uid = ?, resolution_method = ?, resolved_by = ?,
                 updated_at = ?, resolved_at = ?
             WHERE id = ?`,
			string(outcome.Status),
			nullableString(outcome.ResolutionUID),
			nullableString(string(method)),
			nullableString(outcome.ResolvedBy),
			timestamp(now),
			timestamp(now),
			entry.ID,
		); err != nil {
			return fmt.Errorf("close queue entry: %w", err)
		}

		if outcome.Status != QueueResolved {
			return appendAuditTx(ctx, tx, AuditEntry{
				Action:     AuditManual,
				Source:     source,
				ExternalID: externalID,
				Context:    fmt.Sprintf("queue closed as %s by %s", outcome.Status, outcome.ResolvedBy),
			})
		}

		confidence := 1.0
		if err := upsertIdentifierTx(ctx, tx, UpsertIdentifierParams{
			PlayerUID:  outcome.ResolutionUID,
			Source:     source,
			ExternalID: externalID,
			Confidence: confidence,
			Method:     MethodManual,
			VerifiedAt: &now,
		}); err != nil {
			return err
		}

		row = tx.QueryRowContext(ctx,
			`SELECT canonical_name_norm FROM players WHERE player_uid = ?`, outcome.ResolutionUID)
		var canonicalNorm string
		if err := row.Scan(&canonicalNorm); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load resolved player: %w", err)
		}
		if entry.RecordName != "" {
			if observed := strings.TrimSpace(entry.RecordName); observed != "" {
				if err := maybeAddVariationTx(ctx, tx, outcome.ResolutionUID, observed, source, canonicalNorm); err != nil {
					return err
				}
			}
		}

		return appendAuditTx(ctx, tx, AuditEntry{
			Action:     AuditManual,
			PlayerUID:  outcome.ResolutionUID,
			Source:     source,
			ExternalID: externalID,
			Confidence: &confidence,
			Method:     MethodManual,
			Context:    fmt.Sprintf("queue resolved by %s", outcome.ResolvedBy),
		})
	})
}

// MarkQueueInProgress flags an open entry as being worked on.
func (s *Store) MarkQueueInProgress(ctx context.Context, source, externalID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resolution_queue SET status = 'in_progress', updated_at = ?
         WHERE source = ? AND external_id = ? AND status IN ('pending', 'deferred', 'error')`,
		timestamp(time.Now()), normalizeSource(source), strings.TrimSpace(externalID),
	)
	if err != nil {
		return fmt.Errorf("mark in progress: %w", err)
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

// QueueStats returns a count of entries grouped by status.
func (s *Store) QueueStats(ctx context.Context) (map[QueueStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM resolution_queue GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[QueueStatus]int)
	for rows.Next() {
		var (
			status QueueStatus
			count  int
		)
		if err := rows.Scan((*string)(&status), &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const queueColumns = "id, source, external_id, record_name, best_candidate_uid, best_score, runner_up_score, candidates_json, candidate_count, status, priority, resolution_uid, resolution_method, resolved_by, created_at, updated_at, resolved_at"

func scanQueueEntry(scanner interface{ Scan(dest ...any) error }) (*QueueEntry, error) {
	var (
		entry       QueueEntry
		bestUID     sql.NullString
		bestScore   sql.NullFloat64
		runnerUp    sql.NullFloat64
		candidates  sql.NullString
		resolution  sql.NullString
		resMethod   sql.NullString
		resolvedBy  sql.NullString
		createdRaw  string
		updatedRaw  string
		resolvedRaw sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.Source,
		&entry.ExternalID,
		&entry.RecordName,
		&bestUID,
		&bestScore,
		&runnerUp,
		&candidates,
		&entry.CandidateCount,
		(*string)(&entry.Status),
		&entry.Priority,
		&resolution,
		&resMethod,
		&resolvedBy,
		&createdRaw,
		&updatedRaw,
		&resolvedRaw,
	); err != nil {
		return nil, err
	}
	entry.BestCandidateUID = bestUID.String
	entry.BestScore = floatPtr(bestScore)
	entry.RunnerUpScore = floatPtr(runnerUp)
	entry.CandidatesJSON = candidates.String
	entry.ResolutionUID = resolution.String
	entry.ResolutionMethod = MatchMethod(resMethod.String)
	entry.ResolvedBy = resolvedBy.String
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	entry.ResolvedAt = timePtr(resolvedRaw)
	return &entry, nil
}

// Candidates decodes the stored candidate snapshot.
func (e *QueueEntry) Candidates() ([]Candidate, error) {
	if strings.TrimSpace(e.CandidatesJSON) == "" {
		return nil, nil
	}
	var candidates []Candidate
	if err := json.Unmarshal([]byte(e.CandidatesJSON), &candidates); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return candidates, nil
}
