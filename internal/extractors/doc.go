// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to read
// plain text out of a file of a specific format.
//
// Extractors are registered with the Registry at startup.
package extractors
