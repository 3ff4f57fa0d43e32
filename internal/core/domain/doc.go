// Package domain defines the core business entities for travelrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Format: The detected type of an uploaded document
//   - Chunk: A retrievable unit of a cleaned text artifact
//   - Extraction, IngestResult, IndexBuild: Pipeline outcomes
//   - Answer: A grounded response with source attribution
//   - Settings: The explicit configuration object
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
