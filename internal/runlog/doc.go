// Package runlog persists batch runs and per-file outcomes in SQLite.
//
// The Store manages database connections, schema initialization, and the
// per-file status transitions of the batch state machine. Every file is
// visited exactly once per format pass; statuses only move forward and
// nothing is retried, so the ledger is an append-only history that powers
// `soundcheck history`.
//
// Treat this package as the single source of truth for outcome semantics;
// when you add new statuses, update schema.sql and bump schemaVersion.
package runlog
