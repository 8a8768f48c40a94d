// Package domain defines the core business entities for threadsift.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchQuery: What to fetch from Reddit
//   - Post: A normalised Reddit submission
//   - Classification: The intent verdict for one post
//   - ThreadSummary: The condensed form of a whole thread
//   - PipelineResult: The ordered outcome of one run
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
