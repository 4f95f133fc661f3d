// Package history keeps an append-only, size-bounded log of past
// executions, keyed per repository.
//
// The log holds at most Capacity entries per key, newest first; appending
// past the bound silently drops the oldest entry. Entries are never edited,
// only evicted or cleared. Two backends share the Store interface: an
// in-memory store and a SQLite store that survives across sessions.
package history
