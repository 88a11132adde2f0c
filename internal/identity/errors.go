package identity

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("identity: not found")
	// ErrInvalidConfidence indicates a confidence value outside [0,1].
	ErrInvalidConfidence = errors.New("identity: confidence must be in [0,1]")
	// ErrUnknownMethod indicates an unenumerated match method.
	ErrUnknownMethod = errors.New("identity: unknown match method")
	// ErrUnknownStatus indicates an unenumerated status value.
	ErrUnknownStatus = errors.New("identity: unknown status")
	// ErrIdentifierConflict indicates an upsert tried to repoint an external
	// id at a different player. Superseded mappings go through manual
	// override, never silent overwrite.
	ErrIdentifierConflict = errors.New("identity: identifier already mapped to a different player")
	// ErrNameHistoryOverlap indicates a name history span collides with an
	// existing span for the same player.
	ErrNameHistoryOverlap = errors.New("identity: name history ranges overlap")
	// ErrInvalidRange indicates end_date precedes start_date.
	ErrInvalidRange = errors.New("identity: end_date precedes start_date")
	// ErrEmptyNameKey indicates a caller tried to match on the empty
	// normalized-name sentinel.
	ErrEmptyNameKey = errors.New("identity: empty normalized name is undecidable")
)
