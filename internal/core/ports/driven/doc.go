// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Reads plain text out of one document format
//   - ExtractorRegistry: Dispatches a file to the extractor for its format
//   - TextStore: Text artifact persistence (<stem>.txt files)
//   - UploadStore: Raw upload persistence
//   - TextSplitter: Splits cleaned text into overlapping chunks
//   - VectorStore: Persistent vector index with full rebuild and similarity search
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - dependent operations fail with a domain "unavailable" error:
//
//   - EmbeddingService: Generates vector embeddings. Without it, indexing and retrieval are disabled.
//   - LLMService: Language model completion. Without it, answering is disabled.
//   - FormattingRepairer: Repairs PDF text layout. Without it, PDF extraction is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
