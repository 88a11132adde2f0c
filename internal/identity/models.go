package identity

import (
	"strings"
	"time"
)

// PlayerStatus describes a player's roster standing. Players are never
// deleted; retirement and the like are status updates.
type PlayerStatus string

const (
	StatusActive    PlayerStatus = "active"
	StatusPractice  PlayerStatus = "practice"
	StatusInjured   PlayerStatus = "injured"
	StatusSuspended PlayerStatus = "suspended"
	StatusRetired   PlayerStatus = "retired"
	StatusUnsigned  PlayerStatus = "unsigned"
	StatusUnknown   PlayerStatus = "unknown"
)

var playerStatuses = map[PlayerStatus]struct{}{
	StatusActive:    {},
	StatusPractice:  {},
	StatusInjured:   {},
	StatusSuspended: {},
	StatusRetired:   {},
	StatusUnsigned:  {},
	StatusUnknown:   {},
}

// ParsePlayerStatus converts a string into a known PlayerStatus.
func ParsePlayerStatus(value string) (PlayerStatus, bool) {
	status := PlayerStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := playerStatuses[status]
	return status, ok
}

// MatchMethod records which decision rule produced an identifier mapping.
type MatchMethod string

const (
	MethodExact     MatchMethod = "exact"
	MethodCrosswalk MatchMethod = "crosswalk"
	MethodNameDOB   MatchMethod = "name_dob"
	MethodNameOnly  MatchMethod = "name_only"
	MethodFuzzy     MatchMethod = "fuzzy"
	MethodManual    MatchMethod = "manual"
	MethodInferred  MatchMethod = "inferred"
)

var matchMethods = map[MatchMethod]struct{}{
	MethodExact:     {},
	MethodCrosswalk: {},
	MethodNameDOB:   {},
	MethodNameOnly:  {},
	MethodFuzzy:     {},
	MethodManual:    {},
	MethodInferred:  {},
}

// ParseMatchMethod converts a string into a known MatchMethod.
func ParseMatchMethod(value string) (MatchMethod, bool) {
	method := MatchMethod(strings.ToLower(strings.TrimSpace(value)))
	_, ok := matchMethods[method]
	return method, ok
}

// AliasType classifies how an alternate name relates to the canonical one.
type AliasType string

const (
	AliasVariation    AliasType = "variation"
	AliasNickname     AliasType = "nickname"
	AliasMisspelling  AliasType = "misspelling"
	AliasAbbreviation AliasType = "abbreviation"
	AliasLegal        AliasType = "legal"
	AliasBroadcast    AliasType = "broadcast"
	AliasMaiden       AliasType = "maiden"
)

var aliasTypes = map[AliasType]struct{}{
	AliasVariation:    {},
	AliasNickname:     {},
	AliasMisspelling:  {},
	AliasAbbreviation: {},
	AliasLegal:        {},
	AliasBroadcast:    {},
	AliasMaiden:       {},
}

// ParseAliasType converts a string into a known AliasType.
func ParseAliasType(value string) (AliasType, bool) {
	aliasType := AliasType(strings.ToLower(strings.TrimSpace(value)))
	_, ok := aliasTypes[aliasType]
	return aliasType, ok
}

// QueueStatus is the lifecycle of a manual-review queue entry.
type QueueStatus string

const (
	QueuePending    QueueStatus = "pending"
	QueueInProgress QueueStatus = "in_progress"
	QueueResolved   QueueStatus = "resolved"
	QueueRejected   QueueStatus = "rejected"
	QueueDeferred   QueueStatus = "deferred"
	QueueError      QueueStatus = "error"
)

var queueStatuses = map[QueueStatus]struct{}{
	QueuePending:    {},
	QueueInProgress: {},
	QueueResolved:   {},
	QueueRejected:   {},
	QueueDeferred:   {},
	QueueError:      {},
}

// ParseQueueStatus converts a string into a known QueueStatus.
func ParseQueueStatus(value string) (QueueStatus, bool) {
	status := QueueStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := queueStatuses[status]
	return status, ok
}

// AuditAction names the outcome category recorded for one resolution attempt.
type AuditAction string

const (
	AuditMatched      AuditAction = "matched"
	AuditCreated      AuditAction = "created"
	AuditQueued       AuditAction = "queued"
	AuditQualityCheck AuditAction = "quality_check"
	AuditManual       AuditAction = "manual_override"
)

// Player is one real-world athlete tracked by the registry.
type Player struct {
	UID               string
	CanonicalName     string
	CanonicalNameNorm string
	Position          string
	BirthDate         string
	CurrentTeam       string
	Status            PlayerStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Identifier maps one external source id onto a player.
type Identifier struct {
	ID         int64
	PlayerUID  string
	Source     string
	ExternalID string
	Confidence float64
	Method     MatchMethod
	VerifiedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Alias is an observed alternate spelling or nickname tied to a player.
type Alias struct {
	ID        int64
	PlayerUID string
	Alias     string
	AliasNorm string
	Source    string
	Type      AliasType
	CreatedAt time.Time
}

// NameHistory is a time-bounded record of a name a player has been known by.
type NameHistory struct {
	ID        int64
	PlayerUID string
	Name      string
	StartDate string
	EndDate   string
	CreatedAt time.Time
}

// AuditEntry is one append-only resolution decision record.
type AuditEntry struct {
	ID             int64
	Action         AuditAction
	PlayerUID      string
	Source         string
	ExternalID     string
	Confidence     *float64
	Method         MatchMethod
	CandidateCount int
	BestScore      *float64
	RunnerUpScore  *float64
	Context        string
	CreatedAt      time.Time
}

// QueueEntry is a pending manual-review item for an unresolved record.
type QueueEntry struct {
	ID               int64
	Source           string
	ExternalID       string
	RecordName       string
	BestCandidateUID string
	BestScore        *float64
	RunnerUpScore    *float64
	CandidatesJSON   string
	CandidateCount   int
	Status           QueueStatus
	Priority         int
	ResolutionUID    string
	ResolutionMethod MatchMethod
	ResolvedBy       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}

// Candidate is the snapshot of one match candidate stored with a queue entry.
type Candidate struct {
	PlayerUID     string  `json:"player_uid"`
	CanonicalName string  `json:"canonical_name"`
	Score         float64 `json:"score"`
}
