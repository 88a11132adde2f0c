// Package resolve implements the identity resolution engine: the decision
// ladder that maps one external player record onto a canonical player_uid,
// or parks it in the manual review queue when no single candidate can be
// accepted with confidence.
//
// The ladder runs exact id, crosswalk, name+birth-date, name-only, then
// fuzzy similarity; each step is attempted only when the previous one did
// not decide. Unresolvable records never surface as errors. Every
// invocation writes exactly one audit row.
package resolve
