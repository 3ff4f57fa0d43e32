// Package sqlite provides the persistent vector index on top of SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Layout
//
// Each rebuild writes a complete database into a fresh generation directory
// and then publishes it by atomically renaming a CURRENT pointer file:
//
//	<index dir>/CURRENT             name of the live generation
//	<index dir>/gen-<uuid>/index.db chunks, metadata and embeddings
//
// Readers resolve CURRENT on every search and open the generation read-only,
// so they observe either the previous index or the new one, never a partial
// rebuild. Superseded generations are removed after the swap.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Search
//
// Search is an exhaustive cosine scan over all stored embeddings.
package sqlite
