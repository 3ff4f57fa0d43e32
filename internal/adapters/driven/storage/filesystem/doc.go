// Package filesystem stores uploads and extracted text artifacts as flat
// directories on the local disk.
package filesystem
