// Package repositories implements SQLite persistence for run history.
//
// [RunRepository] implements models.Repository[*models.Run] and satisfies tasks.RunRecorder, so the pipeline
// records one row per export or import. Rows are soft deleted via deleted_at and excluded from queries.
//
// Sequence numbers provide stable, human-readable ordering (run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
