// Package identity is the durable registry of canonical players and
// everything hanging off them: external identifier mappings, observed
// aliases, name history, the append-only match audit log, and the manual
// resolution queue.
//
// Every per-record write path is transactional and idempotent, so batch
// imports can be interrupted and re-run from the start without creating
// duplicate players or identifiers.
package identity
