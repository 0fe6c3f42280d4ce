// Package backup implements full-catalog snapshots and their remote storage.
//
// # Snapshots
//
// A snapshot is a single JSON document holding every row of every catalog
// table plus metadata (date, format version, producing application). The
// Engine exports and restores these documents; restore replaces table
// contents one table at a time, skipping tables that fail so a partially
// damaged snapshot still recovers as much as possible.
//
// # Backends
//
// Snapshots live as timestamped objects in a bucket. The Backend interface
// covers create, list and restore; the provider setting chooses between
// static storage credentials and an OAuth refresh-token exchange, without
// changing anything for callers. Retention keeps the most recent snapshots
// up to a configured cap.
//
// # Scheduling
//
// The Scheduler takes a backup on a fixed cadence and a final one on
// shutdown. RestoreOnStartup brings an empty catalog back from the newest
// snapshot, falling back to seeded defaults when none is available.
package backup
