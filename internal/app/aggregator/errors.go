package aggregator

import "github.com/cockroachdb/errors"

// Error kinds carried by every failure of the aggregation pipeline. Callers
// distinguish them with errors.Is; the wrapped message stays human-readable.
var (
	// ErrInvalidInput marks an unrecognized URL or a missing API key.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an identifier that yields no remote record.
	ErrNotFound = errors.New("not found")
	// ErrRemoteAPI marks an explicit error reported by the remote service.
	ErrRemoteAPI = errors.New("remote api error")
	// ErrMalformedResponse marks a remote response missing expected fields.
	ErrMalformedResponse = errors.New("malformed response")
)
