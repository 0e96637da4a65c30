package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrDecode         = errors.New("source decode failed")
	ErrParse          = errors.New("source parse failed")
	ErrEncoding       = errors.New("unknown encoding")
)

// SourceNotFoundError reports a missing input path.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return ErrSourceNotFound.Error() + ": " + e.Path
}

func (e *SourceNotFoundError) Unwrap() error { return ErrSourceNotFound }
