// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline runs leaf-first: ExtractionService turns an upload into a
// persisted text artifact, IndexService rebuilds the vector index from all
// artifacts, RetrievalService selects chunks by maximal marginal relevance
// and AnswerService grounds a single completion in them. IngestService
// coordinates a batch of uploads through extraction and one rebuild.
//
// Services are pure Go with no CGO or external dependencies.
package services
