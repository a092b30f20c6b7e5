package sequence

import "errors"

// Sentinel kinds for sequencing errors.
var (
	ErrEmptyView = errors.New("sequence: empty view")
	ErrStale     = errors.New("sequence: superseded by a newer request")
)
