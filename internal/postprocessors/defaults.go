package postprocessors

import (
	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/postprocessors/chunker"
)

// NewDefaultPipeline builds the standard clean-then-split pipeline from
// the chunking settings. A non-positive size falls back to the chunker default.
func NewDefaultPipeline(cfg domain.ChunkingSettings) *Pipeline {
	var opts []chunker.Option
	if cfg.Size > 0 {
		opts = append(opts, chunker.WithChunkSize(cfg.Size))
	}
	if cfg.Overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(cfg.Overlap))
	}

	return NewPipeline(chunker.New(opts...))
}
