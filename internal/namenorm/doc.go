// Package namenorm turns raw player display names into canonical matching keys.
//
// Normalization is pure, total, and idempotent: it never fails, and applying it
// twice produces the same result as applying it once. The empty string is the
// "undecidable" sentinel; callers must never use it as a match key.
package namenorm
