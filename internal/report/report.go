// Package report assembles derived quality views over the identity store:
// match-method distribution, per-source confidence, review-queue depth, and
// the recent audit tail.
package report

import (
	"context"

	"rosterid/internal/identity"
)

// Report is a point-in-time quality snapshot of the registry.
type Report struct {
	Players     int
	Identifiers int
	Methods     []identity.MethodCount
	Sources     []identity.SourceConfidence
	QueueDepth  map[identity.QueueStatus]int
	RecentAudit []*identity.AuditEntry
}

// AuditTailLimit is how many recent audit entries a report carries.
const AuditTailLimit = 20

// Build collects a full report from the store.
func Build(ctx context.Context, store *identity.Store) (*Report, error) {
	players, err := store.CountPlayers(ctx)
	if err != nil {
		return nil, err
	}
	identifiers, err := store.CountIdentifiers(ctx, "")
	if err != nil {
		return nil, err
	}
	methods, err := store.MethodDistribution(ctx)
	if err != nil {
		return nil, err
	}
	sources, err := store.SourceConfidenceStats(ctx)
	if err != nil {
		return nil, err
	}
	queueDepth, err := store.QueueStats(ctx)
	if err != nil {
		return nil, err
	}
	audit, err := store.RecentAudit(ctx, AuditTailLimit)
	if err != nil {
		return nil, err
	}
	return &Report{
		Players:     players,
		Identifiers: identifiers,
		Methods:     methods,
		Sources:     sources,
		QueueDepth:  queueDepth,
		RecentAudit: audit,
	}, nil
}

// OpenQueueDepth sums the non-resolved queue statuses.
func (r *Report) OpenQueueDepth() int {
	var total int
	for status, count := range r.QueueDepth {
		if status != identity.QueueResolved {
			total += count
		}
	}
	return total
}

// Unverified sums identifiers that have never been verified, across sources.
func (r *Report) Unverified() int {
	var total int
	for _, source := range r.Sources {
		total += source.Unverified
	}
	return total
}
