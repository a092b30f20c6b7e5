package aggregate

import "errors"

// Sentinel kinds for aggregation.
var (
	ErrNilStore = errors.New("aggregate: nil event store")
)
