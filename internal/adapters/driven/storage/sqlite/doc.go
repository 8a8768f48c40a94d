// Package sqlite persists search history in SQLite when history.persist is set.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Only queries are stored: never posts, classifications or summaries.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default the database is stored at ~/.threadsift/data/history.db.
package sqlite
