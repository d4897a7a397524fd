package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
)

// Dump traversal errors. ErrMalformedIndex and ErrTruncated abort a run;
// ErrDecompression and ErrParseMismatch only cost the block they occur in.
var (
	ErrMalformedIndex = errors.New("malformed index")
	ErrTruncated      = errors.New("truncated block")
	ErrDecompression  = errors.New("decompression failed")
	ErrParseMismatch  = errors.New("title/body count mismatch")
)

// IsBlockRecoverable reports whether err only invalidates the current block,
// so that a scan may skip it and continue with the next one.
func IsBlockRecoverable(err error) bool {
	return errors.Is(err, ErrDecompression) || errors.Is(err, ErrParseMismatch)
}
