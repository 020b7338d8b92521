package metrics

import "errors"

// ErrServe wraps failures of the metrics endpoint.
var ErrServe = errors.New("metrics serve failed")
