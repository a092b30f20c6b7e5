package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed        = errors.New("store is closed")
	ErrInvalidQuery  = errors.New("invalid store query")
	ErrUnknownDriver = errors.New("unknown store driver")
)
