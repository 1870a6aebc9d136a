// Package cache implements the validation cache: a fast key-value layer
// keyed by credential digest, holding the last-known validation verdict
// with a bounded time-to-live.
//
// Write discipline:
//
//   - The command executor is the only authoritative writer. Its writes
//     (PutAuthoritative, Invalidate) happen synchronously before a command
//     is acknowledged.
//   - Validation workers only miss-fill with PutIfAbsent, so a racing
//     authoritative write is never overwritten; denial wins the race.
//
// Entries are copies, always re-derivable from the token store, and the
// whole cache can be dropped and rebuilt without data loss.
package cache
