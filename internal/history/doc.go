// Package history persists a record of transcription runs in SQLite.
//
// The store is append-only bookkeeping, not a cache: no transcript is ever
// reused from it, so repeated requests over the same source always produce
// fresh transcriptions. Recording failures are logged by callers and never
// fail a run.
package history
