// Package display is the consumer-facing read path: resolving human-facing
// names, headshots, and team/position fields for rows that carry arbitrary
// subsets of external ids, plus the canonical join-key resolution used by
// stat joiners. Lookups always terminate at an explicit sentinel value and
// never return null.
package display
