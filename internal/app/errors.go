package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrInvalidPlayer = errors.New("invalid player id")
	ErrUnknownSeq    = errors.New("unknown sequencer")
)
