// Package api serves the travel assistant HTTP API.
package api

import (
	"errors"

	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
)

// ErrMissingPort is returned when a required service is not provided.
var ErrMissingPort = errors.New("api: required service is missing")

// Ports aggregates the driving ports behind the HTTP handlers.
type Ports struct {
	Ingest driving.IngestService
	Index  driving.IndexService
	Answer driving.AnswerService

	// HasKey reports whether a model-provider credential is configured.
	// Nil means no credential.
	HasKey func() bool
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingest == nil || p.Index == nil || p.Answer == nil {
		return ErrMissingPort
	}
	return nil
}
