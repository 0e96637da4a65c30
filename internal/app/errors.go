package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownPipeline = errors.New("unknown pipeline")
)
